package department

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDuplicateName      = errors.New("a department with this name already exists")
)
