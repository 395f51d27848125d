package patient_request

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient"
	"github.com/google/uuid"
)

// Status is a single tri-state so a request cannot be approved and rejected at once.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type PatientRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RequestedAt time.Time `gorm:"column:requested_at;autoCreateTime;index" json:"requested_at"`

	FullName    string            `gorm:"column:full_name;type:varchar(200);not null" json:"full_name"`
	UserName    string            `gorm:"column:user_name;type:varchar(255);not null" json:"user_name"` // contact email
	DateOfBirth time.Time         `gorm:"column:date_of_birth;not null" json:"date_of_birth"`
	Gender      patient.Gender    `gorm:"column:gender;type:varchar(20);not null" json:"gender"`
	Address     string            `gorm:"column:address;type:text" json:"address,omitempty"`
	Major       string            `gorm:"column:major;type:varchar(100)" json:"major,omitempty"`
	BloodType   patient.BloodType `gorm:"column:blood_type;type:varchar(10)" json:"blood_type,omitempty"`

	Status    Status     `gorm:"column:status;type:varchar(20);not null;default:'pending';index" json:"status"`
	DecidedAt *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	DecidedBy *uuid.UUID `gorm:"column:decided_by;type:uuid" json:"decided_by,omitempty"`
	PatientID *uuid.UUID `gorm:"column:patient_id;type:uuid" json:"patient_id,omitempty"`
}

func (PatientRequest) TableName() string {
	return "clinical.patient_requests"
}

func (r *PatientRequest) Approve(by, patientID uuid.UUID, at time.Time) error {
	if r.Status != StatusPending {
		return ErrRequestAlreadyDecided
	}
	r.Status = StatusApproved
	r.DecidedAt = &at
	r.DecidedBy = &by
	r.PatientID = &patientID
	return nil
}

func (r *PatientRequest) Reject(by uuid.UUID, at time.Time) error {
	switch r.Status {
	case StatusApproved:
		return ErrRequestAlreadyApproved
	case StatusRejected:
		return ErrRequestAlreadyDecided
	}
	r.Status = StatusRejected
	r.DecidedAt = &at
	r.DecidedBy = &by
	return nil
}

type SubmitRequestCommand struct {
	FullName    string            `json:"full_name" binding:"required"`
	UserName    string            `json:"user_name" binding:"required,email"`
	DateOfBirth time.Time         `json:"date_of_birth" binding:"required"`
	Gender      patient.Gender    `json:"gender" binding:"required"`
	Address     string            `json:"address"`
	Major       string            `json:"major"`
	BloodType   patient.BloodType `json:"blood_type"`
}
