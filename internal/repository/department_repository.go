package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/department"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) error {
	err := r.db.WithContext(ctx).Omit("Rooms").Create(d).Error
	if isDuplicate(err) {
		return department.ErrDuplicateName
	}
	return err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*department.Department, error) {
	var d department.Department
	err := r.db.WithContext(ctx).Preload("Rooms").First(&d, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, department.ErrDepartmentNotFound)
	}
	return &d, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, d *department.Department) error {
	err := save(r.db.WithContext(ctx), d, department.ErrDepartmentNotFound)
	if isDuplicate(err) {
		return department.ErrDuplicateName
	}
	return err
}

func (r *DepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &department.Department{}, id, department.ErrDepartmentNotFound)
}

func (r *DepartmentRepository) List(ctx context.Context) ([]*department.Department, error) {
	var items []*department.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}
