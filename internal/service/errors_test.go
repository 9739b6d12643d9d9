package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestSentinelHierarchy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		parent error
	}{
		{"patient not found is not found", ErrPatientNotFound, store.ErrNotFound},
		{"session not found is not found", ErrSessionNotFound, store.ErrNotFound},
		{"not caretaker is not authorized", ErrNotCaretaker, domain.ErrNotAuthorized},
		{"not patient is not authorized", ErrNotPatient, domain.ErrNotAuthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, errors.Is(tc.err, tc.parent))
			assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", tc.err), tc.err))
		})
	}

	assert.False(t, errors.Is(ErrInvalidCredentials, store.ErrNotFound))
	assert.False(t, errors.Is(ErrPatientNotFound, ErrSessionNotFound))
}

func TestServiceError(t *testing.T) {
	t.Parallel()

	err := NewServiceError("identity", "sign_up", "failed to hash password", errors.New("boom"))
	assert.Equal(t, "identity service sign_up failed: failed to hash password: boom", err.Error())

	var svcErr *ServiceError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &svcErr))
	assert.Equal(t, "sign_up", svcErr.Operation)

	bare := NewServiceError("play", "start", "no content", nil)
	assert.Equal(t, "play service start failed: no content", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
