package prescription

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
)
