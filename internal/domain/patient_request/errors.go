package patient_request

import "errors"

var (
	ErrRequestNotFound        = errors.New("patient request not found")
	ErrRequestAlreadyApproved = errors.New("cannot reject an approved request")
	ErrRequestAlreadyDecided  = errors.New("patient request has already been decided")
)
