package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/doctor"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	err := r.db.WithContext(ctx).Omit("User", "Departments").Create(d).Error
	if isDuplicate(err) {
		return doctor.ErrDoctorAlreadyExists
	}
	return err
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).Preload("User").Preload("Departments").First(&d, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, doctor.ErrDoctorNotFound)
	}
	return &d, nil
}

func (r *DoctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).Preload("User").First(&d, "user_id = ?", userID).Error
	if err != nil {
		return nil, translate(err, doctor.ErrDoctorNotFound)
	}
	return &d, nil
}

func (r *DoctorRepository) Update(ctx context.Context, d *doctor.Doctor) error {
	return save(r.db.WithContext(ctx), d, doctor.ErrDoctorNotFound)
}

func (r *DoctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", id).Delete(&doctor.DoctorDepartment{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &doctor.Doctor{}, id, doctor.ErrDoctorNotFound)
	})
}

func (r *DoctorRepository) List(ctx context.Context) ([]*doctor.Doctor, error) {
	var items []*doctor.Doctor
	err := r.db.WithContext(ctx).Preload("User").Preload("Departments").Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *DoctorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&doctor.Doctor{}).Count(&n).Error
	return n, err
}

func (r *DoctorRepository) AssignDepartment(ctx context.Context, a *doctor.DoctorDepartment) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if isDuplicate(err) {
		return doctor.ErrAlreadyAssigned
	}
	return err
}

func (r *DoctorRepository) UnassignDepartment(ctx context.Context, doctorID, departmentID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("doctor_id = ? AND department_id = ?", doctorID, departmentID).
		Delete(&doctor.DoctorDepartment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return doctor.ErrAssignmentNotFound
	}
	return nil
}
