package medical_record

import "errors"

var (
	ErrRecordNotFound = errors.New("medical record not found")
	// ErrRecordConflict guards the one-record-per-doctor-per-patient rule.
	ErrRecordConflict    = errors.New("a medical record for this patient already exists for this doctor")
	ErrDiagnosisRequired = errors.New("diagnosis is required")
)
