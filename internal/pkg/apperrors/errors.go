package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Lab errors
var (
	ErrLabNotFound = NewCustomError(ErrResourceNotFound, "lab not found").WithCode("LAB_NOT_FOUND")
)

// Student errors
var (
	ErrStudentNotFound        = NewCustomError(ErrResourceNotFound, "student not found").WithCode("STUDENT_NOT_FOUND")
	ErrPhoneAlreadyRegistered = NewCustomError(ErrResourceAlreadyExists, "an application with this phone number already exists").WithCode("PHONE_EXISTS")
	ErrDuplicateChoice        = NewCustomError(ErrValidationFailed, "the same lab cannot be chosen twice").WithCode("DUPLICATE_CHOICE")
	ErrFirstChoiceRequired    = NewCustomError(ErrValidationFailed, "a first choice lab is required").WithCode("FIRST_CHOICE_REQUIRED")
	ErrUnknownChoice          = NewCustomError(ErrValidationFailed, "a chosen lab does not exist").WithCode("UNKNOWN_CHOICE")
)

// Assignment errors
var (
	ErrAssignmentNotFound = NewCustomError(ErrResourceNotFound, "assignment not found").WithCode("ASSIGNMENT_NOT_FOUND")
	ErrInvalidSession     = NewCustomError(ErrValidationFailed, "session number must be 1, 2 or 3").WithCode("INVALID_SESSION")
	ErrInvalidResetTarget = NewCustomError(ErrValidationFailed, "reset target must be all, students or assignments").WithCode("INVALID_RESET_TARGET")
)

// Registration errors
var (
	ErrRegistrationClosed = NewCustomError(ErrConflict, "registration is closed").WithCode("REGISTRATION_CLOSED")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
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
	Message string
	Code    string
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

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
