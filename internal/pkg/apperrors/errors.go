package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Storage errors. Wraps persistence failures (connectivity, constraint
	// violations not otherwise categorized) so callers can distinguish them
	// from domain outcomes.
	ErrStorage = errors.New("storage failure")
)

// Course errors
var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseAlreadyExists = errors.New("course with this code already exists")
	ErrCapacityExceeded    = errors.New("course is at maximum capacity")
	ErrCapacityBelowCount  = errors.New("new capacity is below current enrollment")
)

// Student errors
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrStudentAlreadyExists = errors.New("student with this ID already exists")
)

// Enrollment errors
var (
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")
	ErrNotEnrolled     = errors.New("student is not enrolled in this course")
	ErrInvalidGrade    = errors.New("grade must be between 0 and 100")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewValidationError creates a new custom error for failed validation with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewStorageError wraps a persistence failure with a message
func NewStorageError(cause error, message string) error {
	return &CustomError{
		Err:     ErrStorage,
		Cause:   cause,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Cause   error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
