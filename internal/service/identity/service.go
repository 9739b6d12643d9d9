// Package identity implements sign-up, sign-in and the caretaker–patient
// link graph on top of a store.UserStore.
package identity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/platform/metrics"
	"github.com/phrazzld/carecompanion/internal/service"
	"github.com/phrazzld/carecompanion/internal/service/auth"
	"github.com/phrazzld/carecompanion/internal/store"
)

// Service manages users and their links. Users returned by Service never
// carry password material.
type Service struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewService creates an identity service. m may be nil.
func NewService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	m *metrics.Collector,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		metrics:  m,
		logger:   logger.With("component", "identity_service"),
	}
}

// SignIn checks the credentials and returns the matching user.
// Returns service.ErrInvalidCredentials for an unknown email or wrong password.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("sign-in for unknown email")
			s.metrics.RecordSignIn(false)
			return nil, service.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for sign-in", "error", err)
		return nil, service.NewServiceError("identity", "sign_in", "failed to look up user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("sign-in with wrong password", "user_id", user.ID)
		s.metrics.RecordSignIn(false)
		return nil, service.ErrInvalidCredentials
	}

	s.metrics.RecordSignIn(true)
	s.logger.Info("user signed in", "user_id", user.ID, "role", user.Role)
	return user.Public(), nil
}

// SignUp registers a new user. A caretaker starts with no linked patients and
// a patient with no caretaker.
// Returns store.ErrEmailExists if the email is taken and a validation error
// wrapping domain.ErrInvalidInput for bad input.
func (s *Service) SignUp(
	ctx context.Context,
	email, password string,
	role domain.Role,
	name string,
) (*domain.User, error) {
	user, err := domain.NewUser(email, password, role, name)
	if err != nil {
		return nil, err
	}

	// Fail fast before paying for the hash; Create re-checks atomically.
	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		return nil, store.ErrEmailExists
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, service.NewServiceError("identity", "sign_up", "failed to hash password", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, store.ErrEmailExists
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, service.NewServiceError("identity", "sign_up", "failed to create user", err)
	}

	s.logger.Info("user signed up", "user_id", user.ID, "role", user.Role)
	return user.Public(), nil
}

// ConnectToPatient links a caretaker to a patient. The caller's role is
// checked before the patient is resolved.
// Returns service.ErrNotCaretaker, service.ErrPatientNotFound,
// store.ErrAlreadyLinked, or store.ErrLinkedToOther when the patient already
// has a different caretaker.
func (s *Service) ConnectToPatient(ctx context.Context, caretakerID, patientID uuid.UUID) error {
	caller, err := s.users.GetByID(ctx, caretakerID)
	if err != nil || !caller.IsCaretaker() {
		return service.ErrNotCaretaker
	}

	if _, ok := s.GetPatientDetails(ctx, patientID); !ok {
		return service.ErrPatientNotFound
	}

	if err := s.users.Link(ctx, caretakerID, patientID); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyLinked):
			s.logger.Debug("rejected link",
				"caretaker_id", caretakerID,
				"patient_id", patientID,
				"reason", err)
			return err
		case errors.Is(err, store.ErrUserNotFound):
			return service.ErrPatientNotFound
		default:
			s.logger.Error("failed to link caretaker and patient",
				"error", err,
				"caretaker_id", caretakerID,
				"patient_id", patientID)
			return service.NewServiceError("identity", "connect", "failed to link", err)
		}
	}

	s.logger.Info("caretaker connected to patient",
		"caretaker_id", caretakerID,
		"patient_id", patientID)
	return nil
}

// GetPatientDetails looks up a patient without any ownership check. It
// reports false when the id is unknown or names a caretaker.
func (s *Service) GetPatientDetails(ctx context.Context, patientID uuid.UUID) (*domain.User, bool) {
	user, err := s.users.GetByID(ctx, patientID)
	if err != nil || !user.IsPatient() {
		return nil, false
	}
	return user.Public(), true
}

// GetUser returns any user by id.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// LinkedPatients returns the patients a caretaker looks after, in link order.
func (s *Service) LinkedPatients(ctx context.Context, caretakerID uuid.UUID) ([]*domain.User, error) {
	caller, err := s.users.GetByID(ctx, caretakerID)
	if err != nil || !caller.IsCaretaker() {
		return nil, service.ErrNotCaretaker
	}

	patients := make([]*domain.User, 0, len(caller.LinkedPatientIDs))
	for _, id := range caller.LinkedPatientIDs {
		p, ok := s.GetPatientDetails(ctx, id)
		if !ok {
			s.logger.Warn("linked patient missing", "caretaker_id", caretakerID, "patient_id", id)
			continue
		}
		patients = append(patients, p)
	}
	return patients, nil
}

// SetSafeZone replaces the patient's safe zone and returns the updated
// patient. It does not check who is asking.
// Returns service.ErrPatientNotFound or a validation error wrapping
// domain.ErrInvalidInput.
func (s *Service) SetSafeZone(ctx context.Context, patientID uuid.UUID, zone domain.SafeZone) (*domain.User, error) {
	if _, ok := s.GetPatientDetails(ctx, patientID); !ok {
		return nil, service.ErrPatientNotFound
	}

	if err := s.users.SetSafeZone(ctx, patientID, &zone); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return nil, err
		case store.IsNotFoundError(err):
			return nil, service.ErrPatientNotFound
		default:
			s.logger.Error("failed to set safe zone", "error", err, "patient_id", patientID)
			return nil, service.NewServiceError("identity", "set_safe_zone", "failed to set safe zone", err)
		}
	}

	s.logger.Info("safe zone set", "patient_id", patientID, "radius_meters", zone.RadiusMeters)
	return s.GetUser(ctx, patientID)
}
