package patient

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type BloodType string

const (
	BloodTypeAPos    BloodType = "A+"
	BloodTypeANeg    BloodType = "A-"
	BloodTypeBPos    BloodType = "B+"
	BloodTypeBNeg    BloodType = "B-"
	BloodTypeABPos   BloodType = "AB+"
	BloodTypeABNeg   BloodType = "AB-"
	BloodTypeOPos    BloodType = "O+"
	BloodTypeONeg    BloodType = "O-"
	BloodTypeUnknown BloodType = "unknown"
)

func (b BloodType) IsValid() bool {
	switch b {
	case BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg, BloodTypeUnknown:
		return true
	}
	return false
}

type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// UserID is the identity reference of the owning login.
	UserID uuid.UUID    `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *domain.User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	DateOfBirth time.Time `gorm:"column:date_of_birth;not null" json:"date_of_birth"`
	Gender      Gender    `gorm:"column:gender;type:varchar(20);not null" json:"gender"`
	Address     string    `gorm:"column:address;type:text" json:"address,omitempty"`
	Major       string    `gorm:"column:major;type:varchar(100)" json:"major,omitempty"`
	BloodType   BloodType `gorm:"column:blood_type;type:varchar(10)" json:"blood_type,omitempty"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

// FullName comes from the owning identity when it is loaded.
func (p *Patient) FullName() string {
	if p.User == nil {
		return ""
	}
	return p.User.FullName
}

func (p *Patient) Age(now time.Time) int {
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

// CreatePatientCommand provisions a login named after FullName. UserID is
// filled in by provisioning.
type CreatePatientCommand struct {
	UserID      uuid.UUID `json:"-"`
	FullName    string    `json:"full_name" binding:"required"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	Gender      Gender    `json:"gender" binding:"required"`
	Address     string    `json:"address"`
	Major       string    `json:"major"`
	BloodType   BloodType `json:"blood_type"`
}

type UpdatePatientCommand struct {
	ID          *uuid.UUID `json:"id"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *Gender    `json:"gender"`
	Address     *string    `json:"address"`
	Major       *string    `json:"major"`
	BloodType   *BloodType `json:"blood_type"`
}

// ListPatientsQuery defines filtering and pagination for patient list queries.
type ListPatientsQuery struct {
	// VisibleToDoctorUserID restricts the list to patients with at least one
	// record or appointment authored by the doctor owning this identity.
	VisibleToDoctorUserID *uuid.UUID
	Search                string // name search on the owning identity
	Page                  int
	PageSize              int
}

type PagedPatients struct {
	Patients   []*Patient `json:"patients"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
