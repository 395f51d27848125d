package doctor

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorAlreadyExists = errors.New("doctor profile already exists for this user")
	ErrAlreadyAssigned     = errors.New("doctor is already assigned to this department")
	ErrAssignmentNotFound  = errors.New("doctor is not assigned to this department")
	ErrInvalidExperience   = errors.New("years of experience cannot be negative")
)
