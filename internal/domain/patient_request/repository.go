package patient_request

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *PatientRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*PatientRequest, error)
	Update(ctx context.Context, r *PatientRequest) error
	// ListPending returns requests that are neither approved nor rejected, oldest first.
	ListPending(ctx context.Context) ([]*PatientRequest, error)
}
