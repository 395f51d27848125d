package shift

import "errors"

var (
	ErrShiftNotFound    = errors.New("shift not found")
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrInvalidWindow    = errors.New("shift must end after it starts")
	ErrNoDays           = errors.New("shift must cover at least one weekday")
	ErrNoNurseOnDuty    = errors.New("no available nurse found at this moment")
)
