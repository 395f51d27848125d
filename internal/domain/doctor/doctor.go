package doctor

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/department"
	"github.com/google/uuid"
)

type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uuid.UUID    `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *domain.User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Profession        string    `gorm:"column:profession;type:varchar(150);not null" json:"profession"`
	YearsOfExperience int       `gorm:"column:years_of_experience;not null;default:0" json:"years_of_experience"`
	Address           string    `gorm:"column:address;type:text" json:"address,omitempty"`
	Gender            string    `gorm:"column:gender;type:varchar(20)" json:"gender,omitempty"`
	DateOfBirth       time.Time `gorm:"column:date_of_birth" json:"date_of_birth"`

	Departments []department.Department `gorm:"many2many:clinical.doctor_departments;joinForeignKey:DoctorID;joinReferences:DepartmentID" json:"departments,omitempty"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

// DisplayName is what notifications address the doctor as.
func (d *Doctor) DisplayName() string {
	if d.User == nil || d.User.FullName == "" {
		return "your doctor"
	}
	return "Dr. " + d.User.FullName
}

// DoctorDepartment is the assignment of a doctor to a department.
type DoctorDepartment struct {
	DoctorID     uuid.UUID `gorm:"column:doctor_id;type:uuid;primaryKey"`
	DepartmentID uuid.UUID `gorm:"column:department_id;type:uuid;primaryKey"`
	AssignedAt   time.Time `gorm:"column:assigned_at;autoCreateTime"`
}

func (DoctorDepartment) TableName() string {
	return "clinical.doctor_departments"
}

type CreateDoctorCommand struct {
	UserID            uuid.UUID `json:"-"`
	FullName          string    `json:"full_name" binding:"required"`
	Profession        string    `json:"profession" binding:"required"`
	YearsOfExperience int       `json:"years_of_experience"`
	Address           string    `json:"address"`
	Gender            string    `json:"gender"`
	DateOfBirth       time.Time `json:"date_of_birth"`
}

type UpdateDoctorCommand struct {
	ID                *uuid.UUID `json:"id"`
	Profession        *string    `json:"profession"`
	YearsOfExperience *int       `json:"years_of_experience"`
	Address           *string    `json:"address"`
	Gender            *string    `json:"gender"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
}
