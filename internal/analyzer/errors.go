package analyzer

import "errors"

// Validation errors. Operations that return one of these leave the
// collection unchanged and skip autosave.
var (
	ErrEmptyName       = errors.New("student name cannot be empty")
	ErrStudentExists   = errors.New("student already exists")
	ErrStudentNotFound = errors.New("student not found")
	ErrGradeOutOfRange = errors.New("grade must be between 0 and 100")
	ErrInvalidIndex    = errors.New("invalid grade index")
)
