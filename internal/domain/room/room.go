package room

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	DepartmentID uuid.UUID `gorm:"column:department_id;type:uuid;not null;index" json:"department_id"`
	RoomNumber   string    `gorm:"column:room_number;type:varchar(20);not null" json:"room_number"`
	RoomType     string    `gorm:"column:room_type;type:varchar(50)" json:"room_type,omitempty"`
	// No column default: gorm would otherwise swap an explicit false for it.
	IsAvailable bool   `gorm:"column:is_available;not null" json:"is_available"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
}

func (Room) TableName() string {
	return "clinical.rooms"
}

type CreateRoomCommand struct {
	DepartmentID uuid.UUID `json:"department_id" binding:"required"`
	RoomNumber   string    `json:"room_number" binding:"required"`
	RoomType     string    `json:"room_type"`
	IsAvailable  *bool     `json:"is_available"` // defaults to true
	Description  string    `json:"description"`
}

type UpdateRoomCommand struct {
	ID           *uuid.UUID `json:"id"`
	DepartmentID *uuid.UUID `json:"department_id"`
	RoomNumber   *string    `json:"room_number"`
	RoomType     *string    `json:"room_type"`
	IsAvailable  *bool      `json:"is_available"`
	Description  *string    `json:"description"`
}
