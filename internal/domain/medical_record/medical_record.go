package medical_record

import (
	"sort"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/prescription"
	"github.com/google/uuid"
)

// MedicalRecord is the single record a doctor keeps for a patient.
type MedicalRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	PatientID     uuid.UUID  `gorm:"column:patient_id;type:uuid;not null;index;uniqueIndex:idx_medical_records_doctor_patient" json:"patient_id"`
	DoctorID      uuid.UUID  `gorm:"column:doctor_id;type:uuid;not null;index;uniqueIndex:idx_medical_records_doctor_patient" json:"doctor_id"`
	AppointmentID *uuid.UUID `gorm:"column:appointment_id;type:uuid;index" json:"appointment_id,omitempty"`

	Diagnosis    string `gorm:"column:diagnosis;type:text;not null" json:"diagnosis"`
	Prescription string `gorm:"column:prescription;type:text" json:"prescription,omitempty"`
	Notes        string `gorm:"column:notes;type:text" json:"notes,omitempty"`

	Prescriptions []prescription.Prescription `gorm:"foreignKey:MedicalRecordID;constraint:OnDelete:CASCADE" json:"prescriptions,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "clinical.medical_records"
}

// Latest returns the most recently created record. Ties keep the input order.
func Latest(records []*MedicalRecord) *MedicalRecord {
	if len(records) == 0 {
		return nil
	}
	sorted := make([]*MedicalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted[0]
}

// AuthoredBy returns the record written by doctorID, if any.
func AuthoredBy(records []*MedicalRecord, doctorID uuid.UUID) *MedicalRecord {
	for _, r := range records {
		if r.DoctorID == doctorID {
			return r
		}
	}
	return nil
}

type CreateRecordCommand struct {
	PatientID     uuid.UUID  `json:"patient_id" binding:"required"`
	DoctorID      uuid.UUID  `json:"doctor_id"` // ignored when a doctor authors the record
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Diagnosis     string     `json:"diagnosis" binding:"required"`
	Prescription  string     `json:"prescription"`
	Notes         string     `json:"notes"`
}

type UpdateRecordCommand struct {
	ID            *uuid.UUID `json:"id"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Diagnosis     *string    `json:"diagnosis"`
	Prescription  *string    `json:"prescription"`
	Notes         *string    `json:"notes"`
}
