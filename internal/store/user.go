package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
)

// UserStore defines the interface for user data persistence and the
// caretaker–patient link graph.
type UserStore interface {
	// Create saves a new user. The user must carry a HashedPassword.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address, case-insensitively.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Link records that caretakerID looks after patientID. Both sides of the
	// link are updated together or not at all.
	// Returns ErrUserNotFound if either user does not exist, ErrAlreadyLinked
	// if the link exists and ErrLinkedToOther if the patient already has a
	// different caretaker.
	Link(ctx context.Context, caretakerID, patientID uuid.UUID) error

	// SetSafeZone replaces a patient's safe zone; nil clears it.
	// Returns ErrUserNotFound if the patient does not exist and an error
	// wrapping ErrInvalidEntity if the user is not a patient.
	SetSafeZone(ctx context.Context, patientID uuid.UUID, zone *domain.SafeZone) error

	// ListByRole returns all users with the given role in creation order.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}
