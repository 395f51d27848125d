package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/nurse"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NurseRepository struct {
	db *gorm.DB
}

func NewNurseRepository(db *gorm.DB) *NurseRepository {
	return &NurseRepository{db: db}
}

func (r *NurseRepository) Create(ctx context.Context, n *nurse.Nurse) error {
	err := r.db.WithContext(ctx).Omit("User").Create(n).Error
	if isDuplicate(err) {
		return nurse.ErrNurseAlreadyExists
	}
	return err
}

func (r *NurseRepository) GetByID(ctx context.Context, id uuid.UUID) (*nurse.Nurse, error) {
	var n nurse.Nurse
	if err := r.db.WithContext(ctx).Preload("User").First(&n, "id = ?", id).Error; err != nil {
		return nil, translate(err, nurse.ErrNurseNotFound)
	}
	return &n, nil
}

func (r *NurseRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*nurse.Nurse, error) {
	var n nurse.Nurse
	if err := r.db.WithContext(ctx).Preload("User").First(&n, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err, nurse.ErrNurseNotFound)
	}
	return &n, nil
}

func (r *NurseRepository) Update(ctx context.Context, n *nurse.Nurse) error {
	return save(r.db.WithContext(ctx), n, nurse.ErrNurseNotFound)
}

func (r *NurseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &nurse.Nurse{}, id, nurse.ErrNurseNotFound)
}

func (r *NurseRepository) List(ctx context.Context) ([]*nurse.Nurse, error) {
	var items []*nurse.Nurse
	err := r.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *NurseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&nurse.Nurse{}).Count(&n).Error
	return n, err
}
