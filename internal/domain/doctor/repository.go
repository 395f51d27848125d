package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Doctor, error)
	Count(ctx context.Context) (int64, error)

	AssignDepartment(ctx context.Context, a *DoctorDepartment) error
	UnassignDepartment(ctx context.Context, doctorID, departmentID uuid.UUID) error
}
