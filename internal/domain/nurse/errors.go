package nurse

import "errors"

var (
	ErrNurseNotFound      = errors.New("nurse not found")
	ErrNurseAlreadyExists = errors.New("nurse profile already exists for this user")
)
