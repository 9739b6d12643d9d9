package testutils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestJWTService(t *testing.T) {
	t.Parallel()

	svc := NewTestJWTService(t)
	userID, sessionID := uuid.New(), uuid.New()
	token, err := svc.GenerateToken(context.Background(), userID, sessionID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, sessionID, claims.SessionID)
}

func TestAssertErrorResponse(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	shared.RespondWithErrorAndLog(rec, req, http.StatusConflict, "email_exists", "Email already exists", nil)

	resp := AssertErrorResponse(t, rec, http.StatusConflict, "email_exists")
	assert.Equal(t, "Email already exists", resp.Error)
}

func TestCreateTempConfigFile(t *testing.T) {
	t.Parallel()

	path := CreateTempConfigFile(t, "config.yaml", "server:\n  port: 1\n")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "port: 1")
}
