package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// GetByUserID resolves the profile owned by an identity.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error)

	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a paginated, filtered list of patients.
	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)

	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}
