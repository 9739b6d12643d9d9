package records

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/store"
)

// ErrNotAuthorized is returned when the caller may not act on the patient's
// records.
var ErrNotAuthorized = fmt.Errorf("%w: caller may not act for this patient", domain.ErrNotAuthorized)

// Authorizer decides who may act on a patient's records. It is the single
// ownership rule shared by every record kind.
type Authorizer struct {
	users store.UserStore
}

// NewAuthorizer creates an Authorizer backed by users.
func NewAuthorizer(users store.UserStore) *Authorizer {
	return &Authorizer{users: users}
}

// Authorize permits the patient acting on their own records, and a caretaker
// acting on a patient whose caretaker they are. The link is checked on both
// sides so a half-written link never grants access.
// Returns ErrNotAuthorized otherwise, including when either user is unknown.
func (a *Authorizer) Authorize(ctx context.Context, callerID, patientID uuid.UUID) error {
	caller, err := a.users.GetByID(ctx, callerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrNotAuthorized
		}
		return err
	}

	switch {
	case caller.IsPatient():
		if callerID == patientID {
			return nil
		}
	case caller.IsCaretaker():
		if !caller.LooksAfter(patientID) {
			return ErrNotAuthorized
		}
		patient, err := a.users.GetByID(ctx, patientID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrNotAuthorized
			}
			return err
		}
		if patient.IsPatient() && patient.CaretakerID == callerID {
			return nil
		}
	}
	return ErrNotAuthorized
}
