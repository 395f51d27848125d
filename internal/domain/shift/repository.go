package shift

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*Shift, error)
	Update(ctx context.Context, s *Shift) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Shift, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*Shift, error)
	// ListByRole preloads Staff so callers can reach the on-duty email.
	ListByRole(ctx context.Context, role domain.Role) ([]*Shift, error)
}
