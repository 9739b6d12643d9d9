package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/api"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/domain/game"
	"github.com/phrazzld/carecompanion/internal/facade"
	"github.com/phrazzld/carecompanion/internal/mocks"
	"github.com/phrazzld/carecompanion/internal/platform/logger"
	"github.com/phrazzld/carecompanion/internal/platform/memory"
	"github.com/phrazzld/carecompanion/internal/platform/metrics"
	"github.com/phrazzld/carecompanion/internal/service/play"
	"github.com/phrazzld/carecompanion/internal/testutils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	handler http.Handler
	metrics *metrics.Collector
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	collector := metrics.NewCollector("test")
	hasher := mocks.PlainHasher{}

	f := facade.New(memory.New(), facade.Options{
		Hasher:   hasher,
		Verifier: hasher,
		Metrics:  collector,
		Game:     play.Config{Rand: rand.New(rand.NewPCG(1, 2))},
	}, log)
	t.Cleanup(f.Close)
	require.NoError(t, f.SeedDemo(context.Background()))

	return &testAPI{
		handler: api.NewRouter(api.RouterConfig{
			Facade:        f,
			JWTService:    testutils.NewTestJWTService(t),
			TokenLifetime: time.Hour,
			Metrics:       collector,
			Logger:        log,
		}),
		metrics: collector,
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T, email string) api.AuthResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
		Email:    email,
		Password: facade.DemoPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[api.AuthResponse](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Email:    "new.patient@example.com",
		Password: "longenough",
		Role:     domain.RolePatient,
		Name:     "New Patient",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[api.AuthResponse](t, rec)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.ExpiresAt)
	assert.Equal(t, domain.RolePatient, resp.User.Role)
	assert.NotContains(t, rec.Body.String(), "longenough")

	rec = a.do(t, http.MethodGet, "/api/reminders/due", resp.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/auth/logout", resp.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/reminders/due", resp.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "signed-out tokens are rejected")

	rec = a.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Email:    "new.patient@example.com",
		Password: "longenough",
		Role:     domain.RolePatient,
		Name:     "Again",
	})
	testutils.AssertErrorResponse(t, rec, http.StatusConflict, string(facade.KindEmailExists))

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
		Email:    facade.DemoPatientEmail,
		Password: "wrong-password",
	})
	testutils.AssertErrorResponse(t, rec, http.StatusUnauthorized, string(facade.KindInvalidCredentials))

	assert.Equal(t, 1.0, testutil.ToFloat64(
		a.metrics.HTTPRequests.WithLabelValues(http.MethodPost, "/api/auth/register", "201")))
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	tests := []struct {
		name string
		body any
	}{
		{"bad email", api.RegisterRequest{Email: "nope", Password: "longenough", Role: domain.RolePatient, Name: "N"}},
		{"short password", api.RegisterRequest{Email: "a@b.co", Password: "short", Role: domain.RolePatient, Name: "N"}},
		{"bad role", api.RegisterRequest{Email: "a@b.co", Password: "longenough", Role: "doctor", Name: "N"}},
		{"unknown field", map[string]string{"email": "a@b.co", "nickname": "x"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, "/api/auth/register", "", tc.body)
			testutils.AssertErrorResponse(t, rec, http.StatusBadRequest, string(facade.KindInvalidInput))
		})
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	for name, header := range map[string]string{
		"missing": "",
		"garbage": "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			rec := a.do(t, http.MethodGet, "/api/patients", header, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
		})
	}
}

func TestPatientsAndRecords(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	caretaker := a.login(t, facade.DemoCaretakerEmail)
	patient := a.login(t, facade.DemoPatientEmail)
	pid := patient.User.ID

	rec := a.do(t, http.MethodGet, "/api/patients", caretaker.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	linked := decode[[]domain.User](t, rec)
	require.Len(t, linked, 1)
	assert.Equal(t, pid, linked[0].ID)

	rec = a.do(t, http.MethodGet, "/api/patients/"+pid.String(), caretaker.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "John Patient", decode[domain.User](t, rec).Name)

	rec = a.do(t, http.MethodGet, "/api/patients/"+uuid.NewString(), caretaker.AccessToken, nil)
	testutils.AssertErrorResponse(t, rec, http.StatusNotFound, string(facade.KindPatientNotFound))

	rec = a.do(t, http.MethodGet, "/api/patients/not-a-uuid", caretaker.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	medsPath := fmt.Sprintf("/api/patients/%s/medications", pid)
	rec = a.do(t, http.MethodPost, medsPath, caretaker.AccessToken, domain.Medication{
		PatientID: uuid.New(),
		Name:      "Memantine",
		Dosage:    "10mg",
		Time:      "08:00 PM",
		Frequency: "Daily",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decode[domain.Medication](t, rec)
	assert.Equal(t, pid, added.PatientID, "owner comes from the path")

	rec = a.do(t, http.MethodGet, medsPath, patient.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	meds := decode[[]domain.Medication](t, rec)
	require.Len(t, meds, 2)
	assert.Equal(t, "Donepezil", meds[0].Name)
	assert.Equal(t, "Memantine", meds[1].Name)

	rec = a.do(t, http.MethodPost, medsPath, caretaker.AccessToken, domain.Medication{Name: "Nameless dose"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	newName := "Memantine XR"
	rec = a.do(t, http.MethodPatch, "/api/medications/"+added.ID.String(), caretaker.AccessToken,
		domain.MedicationPatch{Name: &newName})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, newName, decode[domain.Medication](t, rec).Name)

	rec = a.do(t, http.MethodGet, "/api/medications/"+uuid.NewString(), caretaker.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordsForbidStrangers(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	patient := a.login(t, facade.DemoPatientEmail)

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Email:    "other.caretaker@example.com",
		Password: "longenough",
		Role:     domain.RoleCaretaker,
		Name:     "Other Caretaker",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	stranger := decode[api.AuthResponse](t, rec)

	path := fmt.Sprintf("/api/patients/%s/schedule", patient.User.ID)
	rec = a.do(t, http.MethodGet, path, stranger.AccessToken, nil)
	testutils.AssertErrorResponse(t, rec, http.StatusForbidden, string(facade.KindNotAuthorized))

	rec = a.do(t, http.MethodPost, fmt.Sprintf("/api/patients/%s/connect", patient.User.ID), stranger.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "the demo patient already has a caretaker")

	rec = a.do(t, http.MethodPost, fmt.Sprintf("/api/patients/%s/connect", stranger.User.ID), patient.AccessToken, nil)
	testutils.AssertErrorResponse(t, rec, http.StatusForbidden, string(facade.KindNotCaretaker))
}

func TestScheduleAndReminders(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	patient := a.login(t, facade.DemoPatientEmail)
	caretaker := a.login(t, facade.DemoCaretakerEmail)

	rec := a.do(t, http.MethodGet, "/api/reminders/due?at=2026-03-02T08:00:00Z", caretaker.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	due := decode[api.DueRemindersResponse](t, rec)
	require.Len(t, due.Items, 1)
	assert.Equal(t, "Morning Medication", due.Items[0].Title)

	rec = a.do(t, http.MethodGet, "/api/reminders/due?at=yesterday", patient.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, fmt.Sprintf("/api/schedule/%s/complete", due.Items[0].ID), patient.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.ScheduleItem](t, rec).Completed)
}

func TestRouteStatus(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	patient := a.login(t, facade.DemoPatientEmail)

	rec := a.do(t, http.MethodGet, fmt.Sprintf("/api/patients/%s/routes", patient.User.ID), patient.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	routes := decode[[]domain.WalkingRoute](t, rec)
	require.Len(t, routes, 1)
	path := fmt.Sprintf("/api/routes/%s/status", routes[0].ID)

	rec = a.do(t, http.MethodPost, path, patient.AccessToken, api.RouteStatusRequest{
		Latitude: 37.78825, Longitude: -122.4324,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[facade.RouteStatus](t, rec)
	assert.True(t, status.OnRoute)
	assert.InDelta(t, 0, status.DistanceMeters, 0.01)

	rec = a.do(t, http.MethodPost, path, patient.AccessToken, api.RouteStatusRequest{Latitude: 40.7128, Longitude: -74.006})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[facade.RouteStatus](t, rec).OnRoute)

	rec = a.do(t, http.MethodPost, path, patient.AccessToken, api.RouteStatusRequest{Latitude: 91})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSafeZone(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	patient := a.login(t, facade.DemoPatientEmail)
	caretaker := a.login(t, facade.DemoCaretakerEmail)
	zonePath := fmt.Sprintf("/api/patients/%s/safe-zone", patient.User.ID)

	// The demo patient starts with a 1 km zone around home.
	rec := a.do(t, http.MethodPost, zonePath+"/status", caretaker.AccessToken, api.RouteStatusRequest{
		Latitude: 37.78825, Longitude: -122.4324,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	status := decode[facade.SafeZoneStatus](t, rec)
	assert.True(t, status.Inside)
	assert.Equal(t, 1000.0, status.Zone.RadiusMeters)

	rec = a.do(t, http.MethodPost, zonePath+"/status", patient.AccessToken, api.RouteStatusRequest{
		Latitude: 37.80825, Longitude: -122.4324,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[facade.SafeZoneStatus](t, rec).Inside)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.SafeZoneExits))

	rec = a.do(t, http.MethodPut, zonePath, caretaker.AccessToken, api.SafeZoneRequest{
		Latitude: 37.78825, Longitude: -122.4324, RadiusMeters: 3000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3000.0, decode[domain.SafeZone](t, rec).RadiusMeters)

	rec = a.do(t, http.MethodPost, zonePath+"/status", patient.AccessToken, api.RouteStatusRequest{
		Latitude: 37.80825, Longitude: -122.4324,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[facade.SafeZoneStatus](t, rec).Inside)

	rec = a.do(t, http.MethodPut, zonePath, caretaker.AccessToken, api.SafeZoneRequest{Latitude: 37.7, RadiusMeters: -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stranger := a.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Email: "stranger@example.com", Password: "password123", Role: domain.RoleCaretaker, Name: "Stranger",
	})
	require.Equal(t, http.StatusCreated, stranger.Code)
	rec = a.do(t, http.MethodPost, zonePath+"/status", decode[api.AuthResponse](t, stranger).AccessToken,
		api.RouteStatusRequest{Latitude: 37.78825, Longitude: -122.4324})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGameSessionFlow(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	patient := a.login(t, facade.DemoPatientEmail)
	caretaker := a.login(t, facade.DemoCaretakerEmail)

	rec := a.do(t, http.MethodGet, fmt.Sprintf("/api/patients/%s/games", patient.User.ID), patient.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sequenceGame domain.GameDefinition
	for _, g := range decode[[]domain.GameDefinition](t, rec) {
		if g.Variant == domain.VariantSequenceInference {
			sequenceGame = g
		}
	}
	require.NotEqual(t, uuid.Nil, sequenceGame.ID)

	start := api.StartSessionRequest{DefinitionID: sequenceGame.ID}
	rec = a.do(t, http.MethodPost, "/api/sessions", caretaker.AccessToken, start)
	assert.Equal(t, http.StatusForbidden, rec.Code, "only patients play")

	rec = a.do(t, http.MethodPost, "/api/sessions", patient.AccessToken, start)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	view := decode[game.SessionView](t, rec)
	require.NotNil(t, view.Current)
	assert.Equal(t, game.StatePlaying, view.State)
	sessionPath := "/api/sessions/" + view.ID.String()

	rec = a.do(t, http.MethodPost, sessionPath+"/moves", patient.AccessToken,
		game.Move{Kind: game.MoveChoose, Choice: -12345})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, sessionPath+"/moves", patient.AccessToken,
		game.Move{Kind: game.MoveChoose, Choice: view.Current.Options[0]})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[game.MoveResult](t, rec)
	assert.Equal(t, 1, result.View.Moves)

	rec = a.do(t, http.MethodGet, sessionPath, caretaker.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodDelete, sessionPath, patient.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodGet, sessionPath, patient.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodGet, fmt.Sprintf("/api/patients/%s/summary", patient.User.ID), caretaker.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[map[string]any](t, rec)["summary"].(map[string]any)
	assert.Equal(t, 1.0, summary["games_started"])

	rec = a.do(t, http.MethodDelete, "/api/games/"+sequenceGame.ID.String(), caretaker.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = a.do(t, http.MethodGet, "/api/games/"+sequenceGame.ID.String(), caretaker.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
