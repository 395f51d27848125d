package prescription

import (
	"time"

	"github.com/google/uuid"
)

type Prescription struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	// CreatedAt is set once on create and never rewritten.
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	MedicalRecordID uuid.UUID `gorm:"column:medical_record_id;type:uuid;not null;index" json:"medical_record_id"`

	MedicationName string `gorm:"column:medication_name;type:varchar(255);not null;index" json:"medication_name"`
	Dosage         string `gorm:"column:dosage;type:varchar(100);not null" json:"dosage"`       // e.g. "500mg"
	Frequency      string `gorm:"column:frequency;type:varchar(100);not null" json:"frequency"` // e.g. "twice daily"
	Duration       string `gorm:"column:duration;type:varchar(100)" json:"duration,omitempty"`  // e.g. "7 days"
	Instructions   string `gorm:"column:instructions;type:text" json:"instructions,omitempty"`
}

func (Prescription) TableName() string {
	return "clinical.prescriptions"
}

type CreatePrescriptionCommand struct {
	MedicalRecordID uuid.UUID `json:"medical_record_id" binding:"required"`
	MedicationName  string    `json:"medication_name" binding:"required"`
	Dosage          string    `json:"dosage" binding:"required"`
	Frequency       string    `json:"frequency" binding:"required"`
	Duration        string    `json:"duration"`
	Instructions    string    `json:"instructions"`
}

type UpdatePrescriptionCommand struct {
	ID             *uuid.UUID `json:"id"`
	MedicationName *string    `json:"medication_name"`
	Dosage         *string    `json:"dosage"`
	Frequency      *string    `json:"frequency"`
	Duration       *string    `json:"duration"`
	Instructions   *string    `json:"instructions"`
}
