package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/room"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	return r.db.WithContext(ctx).Create(rm).Error
}

func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	var rm room.Room
	if err := r.db.WithContext(ctx).First(&rm, "id = ?", id).Error; err != nil {
		return nil, translate(err, room.ErrRoomNotFound)
	}
	return &rm, nil
}

func (r *RoomRepository) Update(ctx context.Context, rm *room.Room) error {
	return save(r.db.WithContext(ctx), rm, room.ErrRoomNotFound)
}

func (r *RoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &room.Room{}, id, room.ErrRoomNotFound)
}

func (r *RoomRepository) List(ctx context.Context) ([]*room.Room, error) {
	var items []*room.Room
	err := r.db.WithContext(ctx).Order("room_number ASC").Find(&items).Error
	return items, err
}

func (r *RoomRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*room.Room, error) {
	var items []*room.Room
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("room_number ASC").
		Find(&items).Error
	return items, err
}
