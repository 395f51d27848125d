package medical_record

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	Update(ctx context.Context, r *MedicalRecord) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByPatient returns every record for a patient, newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalRecord, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*MedicalRecord, error)

	// GetByDoctorAndPatient returns ErrRecordNotFound when the pair has no record.
	GetByDoctorAndPatient(ctx context.Context, doctorID, patientID uuid.UUID) (*MedicalRecord, error)
}
