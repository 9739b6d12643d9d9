package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/domain/game"
	"github.com/phrazzld/carecompanion/internal/facade"
	"github.com/phrazzld/carecompanion/internal/service"
	"github.com/phrazzld/carecompanion/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not signed in", facade.ErrNotSignedIn, http.StatusUnauthorized},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"already linked", store.ErrLinkedToOther, http.StatusConflict},
		{"session complete", game.ErrSessionComplete, http.StatusConflict},
		{"patient not found", service.ErrPatientNotFound, http.StatusNotFound},
		{"record not found", fmt.Errorf("records: get: %w", store.ErrRecordNotFound), http.StatusNotFound},
		{"not caretaker", service.ErrNotCaretaker, http.StatusForbidden},
		{"not authorized", domain.ErrNotAuthorized, http.StatusForbidden},
		{"invalid input", domain.NewValidationError("name", "is required", nil), http.StatusBadRequest},
		{"invalid move", game.ErrUnknownCard, http.StatusBadRequest},
		{"canceled", context.Canceled, http.StatusRequestTimeout},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Invalid name: is required",
		GetSafeErrorMessage(fmt.Errorf("wrapped: %w", domain.NewValidationError("name", "is required", nil))))
	assert.Equal(t, "Patient not found", GetSafeErrorMessage(service.ErrPatientNotFound))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("postgres://user:pw@host")))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	type req struct {
		Email string `validate:"required,email"`
	}
	err := validator.New().Struct(req{Email: "nope"})
	assert.Equal(t, "Invalid email: invalid email format", SanitizeValidationError(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
