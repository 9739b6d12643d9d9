package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two kinds of account.
type Role string

// Supported roles.
const (
	RolePatient   Role = "patient"
	RoleCaretaker Role = "caretaker"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleCaretaker
}

// Password length limits. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Common validation errors
var (
	ErrEmptyUserID      = NewValidationError("id", "cannot be empty", ErrInvalidInput)
	ErrEmptyEmail       = NewValidationError("email", "cannot be empty", ErrInvalidInput)
	ErrInvalidEmail     = NewValidationError("email", "must be a valid email address", ErrInvalidInput)
	ErrEmptyName        = NewValidationError("name", "cannot be empty", ErrInvalidInput)
	ErrPasswordTooShort = NewValidationError("password", "must be at least 8 characters long", ErrInvalidInput)
	ErrPasswordTooLong  = NewValidationError("password", "must be at most 72 characters long", ErrInvalidInput)
	ErrEmptyPassword    = NewValidationError("password", "cannot be empty", ErrInvalidInput)
)

// User is a registered patient or caretaker.
//
// A caretaker holds the set of patients it looks after in LinkedPatientIDs;
// a patient holds at most one CaretakerID (uuid.Nil when unlinked). The two
// sides are kept consistent by the identity store. Only patients carry a
// SafeZone.
type User struct {
	ID               uuid.UUID   `json:"id"`
	Email            string      `json:"email"`
	Name             string      `json:"name"`
	Role             Role        `json:"role"`
	ProfileImage     string      `json:"profile_image,omitempty"`
	Password         string      `json:"-"` // Plaintext, only set during sign-up
	HashedPassword   string      `json:"-"`
	LinkedPatientIDs []uuid.UUID `json:"linked_patient_ids,omitempty"`
	CaretakerID      uuid.UUID   `json:"caretaker_id,omitempty"`
	SafeZone         *SafeZone   `json:"safe_zone,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// NewUser creates a new User with the given credentials, role and display name.
// The email is normalized to lower case. The caller is responsible for hashing
// the password before the user is stored.
func NewUser(email, password string, role Role, name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Name:      strings.TrimSpace(name),
		Role:      role,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims and lower-cases an email address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if err := validate.Var(u.Email, "email"); err != nil {
		return ErrInvalidEmail
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if !u.Role.Valid() {
		return ErrInvalidRole
	}

	// A plaintext password is only present during sign-up; stored users
	// must carry a hash instead.
	if u.Password != "" {
		switch {
		case len(u.Password) < MinPasswordLength:
			return ErrPasswordTooShort
		case len(u.Password) > MaxPasswordLength:
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// IsPatient reports whether the user has the patient role.
func (u *User) IsPatient() bool { return u.Role == RolePatient }

// IsCaretaker reports whether the user has the caretaker role.
func (u *User) IsCaretaker() bool { return u.Role == RoleCaretaker }

// HasCaretaker reports whether a patient is linked to a caretaker.
func (u *User) HasCaretaker() bool { return u.CaretakerID != uuid.Nil }

// LooksAfter reports whether patientID is in the caretaker's link set.
func (u *User) LooksAfter(patientID uuid.UUID) bool {
	return slices.Contains(u.LinkedPatientIDs, patientID)
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.LinkedPatientIDs = slices.Clone(u.LinkedPatientIDs)
	if u.SafeZone != nil {
		zone := *u.SafeZone
		c.SafeZone = &zone
	}
	return &c
}

// Public returns a copy of the user without any password material.
func (u *User) Public() *User {
	c := u.Clone()
	if c == nil {
		return nil
	}
	c.Password = ""
	c.HashedPassword = ""
	return c
}
