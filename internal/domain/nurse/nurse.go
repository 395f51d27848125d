package nurse

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/google/uuid"
)

type Nurse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uuid.UUID    `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *domain.User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Gender            string    `gorm:"column:gender;type:varchar(20)" json:"gender,omitempty"`
	DateOfBirth       time.Time `gorm:"column:date_of_birth" json:"date_of_birth"`
	Address           string    `gorm:"column:address;type:text" json:"address,omitempty"`
	PhoneNumber       string    `gorm:"column:phone_number;type:varchar(30)" json:"phone_number,omitempty"`
	YearsOfExperience int       `gorm:"column:years_of_experience;not null;default:0" json:"years_of_experience"`
}

func (Nurse) TableName() string {
	return "clinical.nurses"
}

type CreateNurseCommand struct {
	UserID            uuid.UUID `json:"-"`
	FullName          string    `json:"full_name" binding:"required"`
	Gender            string    `json:"gender"`
	DateOfBirth       time.Time `json:"date_of_birth"`
	Address           string    `json:"address"`
	PhoneNumber       string    `json:"phone_number"`
	YearsOfExperience int       `json:"years_of_experience"`
}

type UpdateNurseCommand struct {
	ID                *uuid.UUID `json:"id"`
	Gender            *string    `json:"gender"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	Address           *string    `json:"address"`
	PhoneNumber       *string    `json:"phone_number"`
	YearsOfExperience *int       `json:"years_of_experience"`
}
