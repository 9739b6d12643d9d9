package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	a := GetTraceID(SetTraceID(context.Background()))
	b := GetTraceID(SetTraceID(context.Background()))
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestAuthContext(t *testing.T) {
	t.Parallel()

	_, ok := UserID(context.Background())
	assert.False(t, ok)

	user, token := uuid.New(), uuid.New()
	ctx := WithAuth(context.Background(), user, token)
	got, ok := UserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, user, got)
	gotToken, ok := SessionToken(ctx)
	assert.True(t, ok)
	assert.Equal(t, token, gotToken)

	_, ok = UserID(WithAuth(context.Background(), uuid.Nil, token))
	assert.False(t, ok, "nil ids are not authenticated")
}

type payload struct {
	Name string `json:"name" validate:"required"`
}

func TestDecodeAndValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"walk"}`, false},
		{"empty body", ``, true},
		{"malformed", `{"name":`, true},
		{"unknown field", `{"name":"walk","extra":1}`, true},
		{"fails validation", `{"name":""}`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var p payload
			err := DecodeAndValidate(req, &p)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "walk", p.Name)
		})
	}
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()
	log, buf := logger.NewTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	ctx := logger.WithLogger(SetTraceID(req.Context()), log)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "internal", "Something went wrong",
		errors.New("login with password=hunter2 rejected"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Something went wrong", resp.Error)
	assert.Equal(t, "internal", resp.Kind)
	assert.Equal(t, GetTraceID(ctx), resp.TraceID)
	assert.NotContains(t, rec.Body.String(), "hunter2")

	logger.AssertLogContains(t, buf, "API error response")
	assert.NotContains(t, buf.String(), "hunter2")
}
