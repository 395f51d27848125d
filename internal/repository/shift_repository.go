package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/shift"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(ctx context.Context, s *shift.Shift) error {
	return r.db.WithContext(ctx).Omit("Staff").Create(s).Error
}

func (r *ShiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*shift.Shift, error) {
	var s shift.Shift
	if err := r.db.WithContext(ctx).Preload("Staff").First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err, shift.ErrShiftNotFound)
	}
	return &s, nil
}

func (r *ShiftRepository) Update(ctx context.Context, s *shift.Shift) error {
	return save(r.db.WithContext(ctx), s, shift.ErrShiftNotFound)
}

func (r *ShiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &shift.Shift{}, id, shift.ErrShiftNotFound)
}

func (r *ShiftRepository) List(ctx context.Context) ([]*shift.Shift, error) {
	var items []*shift.Shift
	err := r.db.WithContext(ctx).Preload("Staff").Order("start_time ASC").Find(&items).Error
	return items, err
}

func (r *ShiftRepository) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*shift.Shift, error) {
	var items []*shift.Shift
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("staff_id = ?", staffID).
		Order("start_time ASC").
		Find(&items).Error
	return items, err
}

func (r *ShiftRepository) ListByRole(ctx context.Context, role domain.Role) ([]*shift.Shift, error) {
	var items []*shift.Shift
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("role = ?", role).
		Order("start_time ASC").
		Find(&items).Error
	return items, err
}
