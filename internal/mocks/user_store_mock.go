package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/stretchr/testify/mock"
)

// TestifyMockUserStore is a mock of store.UserStore interface for use with testify/mock
type TestifyMockUserStore struct {
	mock.Mock
}

// Create is a mock implementation of store.UserStore.Create
func (m *TestifyMockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *TestifyMockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByEmail is a mock implementation of store.UserStore.GetByEmail
func (m *TestifyMockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// Link is a mock implementation of store.UserStore.Link
func (m *TestifyMockUserStore) Link(ctx context.Context, caretakerID, patientID uuid.UUID) error {
	args := m.Called(ctx, caretakerID, patientID)
	return args.Error(0)
}

// ListByRole is a mock implementation of store.UserStore.ListByRole
func (m *TestifyMockUserStore) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	args := m.Called(ctx, role)
	if users, ok := args.Get(0).([]*domain.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

// SetSafeZone is a mock implementation of store.UserStore.SetSafeZone
func (m *TestifyMockUserStore) SetSafeZone(ctx context.Context, patientID uuid.UUID, zone *domain.SafeZone) error {
	args := m.Called(ctx, patientID, zone)
	return args.Error(0)
}
