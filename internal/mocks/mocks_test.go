package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/events"
	"github.com/phrazzld/carecompanion/internal/service/auth"
	"github.com/phrazzld/carecompanion/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)
	_ auth.PasswordVerifier = PlainHasher{}
	_ auth.PasswordHasher   = PlainHasher{}
	_ auth.JWTService       = (*MockJWTService)(nil)
	_ store.UserStore       = (*TestifyMockUserStore)(nil)
	_ events.EventEmitter   = (*MockEventEmitter)(nil)
)

func TestPlainHasher(t *testing.T) {
	h := PlainHasher{}
	hash, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hash, "password123"))
	assert.Error(t, h.Compare(hash, "password"))

	boom := errors.New("boom")
	_, err = PlainHasher{Err: boom}.Hash("x")
	assert.ErrorIs(t, err, boom)
}

func TestMockPasswordVerifier(t *testing.T) {
	m := &MockPasswordVerifier{ShouldSucceed: true}
	assert.NoError(t, m.Compare("h", "p"))
	m.ShouldSucceed = false
	assert.Error(t, m.Compare("h", "p"))
	assert.Equal(t, 2, m.CompareCallCount)
}

func TestMockJWTService(t *testing.T) {
	claims := &auth.Claims{UserID: uuid.New(), SessionID: uuid.New()}
	m := &MockJWTService{Token: "token", Claims: claims}

	token, err := m.GenerateToken(context.Background(), claims.UserID, claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "token", token)

	got, err := m.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Same(t, claims, got)
}

func TestMockEventEmitter(t *testing.T) {
	m := &MockEventEmitter{}
	ctx := context.Background()
	require.NoError(t, events.Emit(ctx, m, events.TypeReminderDue, events.ReminderDuePayload{}))
	require.NoError(t, events.Emit(ctx, m, events.TypeSessionCompleted, events.SessionCompletedPayload{}))

	assert.Len(t, m.Events(""), 2)
	assert.Len(t, m.Events(events.TypeReminderDue), 1)
	assert.Empty(t, m.Events(events.TypeCardsUnflipped))
}
