package shift

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/google/uuid"
)

// TimeOfDay is a wall-clock offset from midnight, in seconds.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// ClockOf returns the time of day of t in t's own location.
func ClockOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

func (t TimeOfDay) IsValid() bool {
	return t >= 0 && t < secondsPerDay
}

func (t TimeOfDay) String() string {
	h, m, s := int(t)/3600, (int(t)%3600)/60, int(t)%60
	if s == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Shift struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// StaffID is the identity reference of the staff member on duty.
	StaffID uuid.UUID    `gorm:"column:staff_id;type:uuid;not null;index" json:"staff_id"`
	Staff   *domain.User `gorm:"foreignKey:StaffID" json:"staff,omitempty"`

	DaysOfWeek        []time.Weekday `gorm:"column:days_of_week;serializer:json;not null" json:"days_of_week"`
	StartTime         TimeOfDay      `gorm:"column:start_time;not null" json:"start_time"`
	EndTime           TimeOfDay      `gorm:"column:end_time;not null" json:"end_time"`
	IsRepeatingWeekly bool           `gorm:"column:is_repeating_weekly;not null" json:"is_repeating_weekly"`
	Role              domain.Role    `gorm:"column:role;type:varchar(30);not null;index" json:"role"`
}

func (Shift) TableName() string {
	return "clinical.shifts"
}

func (s *Shift) OnDay(day time.Weekday) bool {
	for _, d := range s.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// Covers reports whether the shift is on duty at the given weekday and time,
// with both window ends inclusive.
func (s *Shift) Covers(day time.Weekday, at TimeOfDay) bool {
	return s.OnDay(day) && s.StartTime <= at && at <= s.EndTime
}

// ActiveAt filters shifts on duty at t (t's location is the clinic clock) and
// orders them by start time, earliest first. Equal starts keep input order.
func ActiveAt(shifts []*Shift, t time.Time) []*Shift {
	day, at := t.Weekday(), ClockOf(t)
	active := make([]*Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.Covers(day, at) {
			active = append(active, s)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].StartTime < active[j].StartTime
	})
	return active
}

type CreateShiftCommand struct {
	StaffID           uuid.UUID      `json:"staff_id" binding:"required"`
	DaysOfWeek        []time.Weekday `json:"days_of_week" binding:"required"`
	StartTime         TimeOfDay      `json:"start_time"`
	EndTime           TimeOfDay      `json:"end_time"`
	IsRepeatingWeekly bool           `json:"is_repeating_weekly"`
	Role              domain.Role    `json:"role" binding:"required"`
}

type UpdateShiftCommand struct {
	ID                *uuid.UUID      `json:"id"`
	StaffID           *uuid.UUID      `json:"staff_id"`
	DaysOfWeek        *[]time.Weekday `json:"days_of_week"`
	StartTime         *TimeOfDay      `json:"start_time"`
	EndTime           *TimeOfDay      `json:"end_time"`
	IsRepeatingWeekly *bool           `json:"is_repeating_weekly"`
	Role              *domain.Role    `json:"role"`
}

// UrgentAlertCommand names where help is needed.
type UrgentAlertCommand struct {
	DepartmentID uuid.UUID `json:"department_id" binding:"required"`
	RoomID       uuid.UUID `json:"room_id" binding:"required"`
}
