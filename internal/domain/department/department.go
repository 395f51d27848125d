package department

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/room"
	"github.com/google/uuid"
)

type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name        string `gorm:"column:name;type:varchar(150);not null;uniqueIndex" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`

	Rooms []room.Room `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE" json:"rooms,omitempty"`
}

func (Department) TableName() string {
	return "clinical.departments"
}

type CreateDepartmentCommand struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateDepartmentCommand struct {
	ID          *uuid.UUID `json:"id"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
}
