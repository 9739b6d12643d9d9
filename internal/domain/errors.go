package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrInvalidInput is returned when a domain entity fails validation,
	// for example when a required text field is empty.
	// This is usually wrapped in a ValidationError naming the field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotAuthorized is returned when the caller may not act on a patient's records.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidRole is returned when a role is neither patient nor caretaker.
	ErrInvalidRole = fmt.Errorf("%w: role must be patient or caretaker", ErrInvalidInput)
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError wrapping err.
// When err is nil the error wraps ErrInvalidInput.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrInvalidInput
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
