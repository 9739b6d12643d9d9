package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/carecompanion/internal/api/shared"
	"github.com/phrazzld/carecompanion/internal/facade"
	"github.com/phrazzld/carecompanion/internal/platform/logger"
	"github.com/phrazzld/carecompanion/internal/service/auth"
)

// AuthHandler handles sign-up, sign-in and sign-out requests.
type AuthHandler struct {
	facade        *facade.Facade
	jwtService    auth.JWTService
	tokenLifetime time.Duration
	timeFunc      func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(f *facade.Facade, jwtService auth.JWTService, tokenLifetime time.Duration) *AuthHandler {
	return &AuthHandler{
		facade:        f,
		jwtService:    jwtService,
		tokenLifetime: tokenLifetime,
		timeFunc:      time.Now,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	session, err := h.facade.SignUp(r.Context(), req.Email, req.Password, req.Role, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.respondWithSession(w, r, http.StatusCreated, session)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	session, err := h.facade.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.respondWithSession(w, r, http.StatusOK, session)
}

// Logout handles POST /api/auth/logout. The bearer token stops working
// immediately even though it has not expired.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := shared.SessionToken(r.Context()); ok {
		h.facade.SignOut(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, status int, s *facade.Session) {
	token, err := h.jwtService.GenerateToken(r.Context(), s.User.ID, s.Token)
	if err != nil {
		h.facade.SignOut(s.Token)
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Error("failed to generate token", "error", err, "user_id", s.User.ID)
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, string(facade.KindInternal),
			"Failed to generate authentication token", err)
		return
	}

	resp := AuthResponse{User: s.User.Public(), AccessToken: token}
	if h.tokenLifetime > 0 {
		resp.ExpiresAt = h.timeFunc().Add(h.tokenLifetime).UTC().Format(time.RFC3339)
	}
	shared.RespondWithJSON(w, r, status, resp)
}
