package facade

import (
	"context"
	"errors"

	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/domain/game"
	"github.com/phrazzld/carecompanion/internal/service"
	"github.com/phrazzld/carecompanion/internal/store"
)

// Kind classifies a facade error for presentation.
type Kind string

// Error kinds.
const (
	KindNone               Kind = ""
	KindInvalidCredentials Kind = "invalid_credentials"
	KindEmailExists        Kind = "email_exists"
	KindPatientNotFound    Kind = "patient_not_found"
	KindNotCaretaker       Kind = "not_caretaker"
	KindAlreadyLinked      Kind = "already_linked"
	KindNotAuthorized      Kind = "not_authorized"
	KindNotFound           Kind = "not_found"
	KindInvalidInput       Kind = "invalid_input"
	KindNotSignedIn        Kind = "not_signed_in"
	KindSessionComplete    Kind = "session_complete"
	KindCanceled           Kind = "canceled"
	KindInternal           Kind = "internal"
)

// KindOf classifies err. Specific kinds are checked before the general kinds
// they wrap, so a PatientNotFound is never reported as a plain NotFound.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, service.ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, store.ErrEmailExists):
		return KindEmailExists
	case errors.Is(err, service.ErrPatientNotFound):
		return KindPatientNotFound
	case errors.Is(err, service.ErrNotCaretaker):
		return KindNotCaretaker
	case errors.Is(err, store.ErrAlreadyLinked):
		return KindAlreadyLinked
	case errors.Is(err, ErrNotSignedIn):
		return KindNotSignedIn
	case errors.Is(err, domain.ErrNotAuthorized):
		return KindNotAuthorized
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound
	case errors.Is(err, game.ErrSessionComplete):
		return KindSessionComplete
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, store.ErrInvalidEntity):
		return KindInvalidInput
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
