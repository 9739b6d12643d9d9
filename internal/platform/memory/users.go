package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/store"
)

var _ store.UserStore = (*UserStore)(nil)

// UserStore is an in-memory store.UserStore.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]uuid.UUID
	order   []uuid.UUID
	opts    options
}

// NewUserStore creates an empty user store.
func NewUserStore(opts ...Option) *UserStore {
	return &UserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]uuid.UUID),
		opts:    buildOptions(opts),
	}
}

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := s.opts.suspend(ctx); err != nil {
		return err
	}

	stored := user.Clone()
	stored.Email = domain.NormalizeEmail(stored.Email)
	stored.Password = ""
	if err := stored.Validate(); err != nil {
		return store.NewStoreError("user", "create", "invalid user", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[stored.Email]; exists {
		return store.ErrEmailExists
	}
	if _, exists := s.byID[stored.ID]; exists {
		return fmt.Errorf("%w: user id", store.ErrDuplicate)
	}

	s.byID[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID
	s.order = append(s.order, stored.ID)
	return nil
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u.Clone(), nil
}

// GetByEmail implements store.UserStore.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return s.byID[id].Clone(), nil
}

// Link implements store.UserStore. Both users are checked and updated under
// one lock.
func (s *UserStore) Link(ctx context.Context, caretakerID, patientID uuid.UUID) error {
	if err := s.opts.suspend(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	caretaker, ok := s.byID[caretakerID]
	if !ok {
		return store.ErrUserNotFound
	}
	patient, ok := s.byID[patientID]
	if !ok {
		return store.ErrUserNotFound
	}
	if !caretaker.IsCaretaker() || !patient.IsPatient() {
		return store.NewStoreError("user", "link", "link requires a caretaker and a patient",
			store.ErrInvalidEntity)
	}

	switch {
	case patient.CaretakerID == caretakerID || caretaker.LooksAfter(patientID):
		return store.ErrAlreadyLinked
	case patient.HasCaretaker():
		return store.ErrLinkedToOther
	}

	now := s.opts.now()
	caretaker.LinkedPatientIDs = append(caretaker.LinkedPatientIDs, patientID)
	caretaker.UpdatedAt = now
	patient.CaretakerID = caretakerID
	patient.UpdatedAt = now
	return nil
}

// SetSafeZone implements store.UserStore.
func (s *UserStore) SetSafeZone(ctx context.Context, patientID uuid.UUID, zone *domain.SafeZone) error {
	if err := s.opts.suspend(ctx); err != nil {
		return err
	}
	if zone != nil {
		if err := zone.Validate(); err != nil {
			return store.NewStoreError("user", "set_safe_zone", "invalid safe zone", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	patient, ok := s.byID[patientID]
	if !ok {
		return store.ErrUserNotFound
	}
	if !patient.IsPatient() {
		return store.NewStoreError("user", "set_safe_zone", "only patients have a safe zone",
			store.ErrInvalidEntity)
	}

	patient.SafeZone = nil
	if zone != nil {
		z := *zone
		patient.SafeZone = &z
	}
	patient.UpdatedAt = s.opts.now()
	return nil
}

// ListByRole implements store.UserStore.
func (s *UserStore) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domain.User, 0)
	for _, id := range s.order {
		if u := s.byID[id]; u.Role == role {
			users = append(users, u.Clone())
		}
	}
	return users, nil
}
