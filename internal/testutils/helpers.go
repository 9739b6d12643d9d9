package testutils

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/carecompanion/internal/api/shared"
	"github.com/phrazzld/carecompanion/internal/config"
	"github.com/phrazzld/carecompanion/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJWTSecret is long enough to satisfy the JWT service.
const TestJWTSecret = "test-secret-that-is-at-least-32-chars"

// TestAuthConfig returns an auth configuration suitable for tests. The bcrypt
// cost is the minimum so hashing stays fast.
func TestAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            TestJWTSecret,
		TokenLifetimeMinutes: 60,
		BCryptCost:           4,
	}
}

// NewTestJWTService returns a real HMAC JWT service using TestAuthConfig.
func NewTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(TestAuthConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return svc
}

// AssertErrorResponse checks that rec holds a JSON error with the expected
// status code and kind. It returns the decoded response.
func AssertErrorResponse(
	t *testing.T,
	rec *httptest.ResponseRecorder,
	expectedStatus int,
	expectedKind string,
) shared.ErrorResponse {
	t.Helper()

	assert.Equal(t, expectedStatus, rec.Code, "unexpected status, body: %s", rec.Body.String())

	var errResp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp),
		"Failed to unmarshal error response: %s", rec.Body.String())
	assert.NotEmpty(t, errResp.Error, "Error message should not be empty")
	if expectedKind != "" {
		assert.Equal(t, expectedKind, errResp.Kind)
	}
	return errResp
}

// CreateTempConfigFile writes content to a config file under t.TempDir and
// returns its path.
func CreateTempConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "Failed to write temp config file")
	return path
}
