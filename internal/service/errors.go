// Package service holds the application services of the care companion and
// the errors they share. Each concern lives in its own subpackage:
// identity, records, reminder and play.
package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The facade classifies errors into kinds; the API maps kinds to HTTP status codes
var (
	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// The two cases are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPatientNotFound indicates that an id does not name a patient.
	ErrPatientNotFound = fmt.Errorf("%w: patient", store.ErrNotFound)

	// ErrNotCaretaker indicates that a caretaker-only operation was called by
	// someone else.
	ErrNotCaretaker = fmt.Errorf("%w: caller is not a caretaker", domain.ErrNotAuthorized)

	// ErrNotPatient indicates that a patient-only operation was called by
	// someone else.
	ErrNotPatient = fmt.Errorf("%w: caller is not a patient", domain.ErrNotAuthorized)

	// ErrNoSafeZone indicates that a patient has no safe zone set.
	ErrNoSafeZone = fmt.Errorf("%w: safe zone", store.ErrNotFound)

	// ErrSessionNotFound indicates an unknown or ended game session.
	ErrSessionNotFound = fmt.Errorf("%w: game session", store.ErrNotFound)
)

// ServiceError wraps an unexpected failure with the service and operation
// that produced it.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
