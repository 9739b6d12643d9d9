package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/api/shared"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/platform/logger"
	"github.com/phrazzld/carecompanion/internal/redact"
	"github.com/phrazzld/carecompanion/internal/service/auth"
)

// Authenticator resolves a sign-in session to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token uuid.UUID) (*domain.User, error)
}

// ErrSessionEnded is returned by Authenticators for unknown or signed-out sessions.
var ErrSessionEnded = errors.New("session ended")

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	sessions   Authenticator
	// signedOut reports whether err means the session is gone rather than broken.
	signedOut func(error) bool
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
// signedOut classifies Authenticator errors that should yield 401.
func NewAuthMiddleware(jwtService auth.JWTService, sessions Authenticator, signedOut func(error) bool) *AuthMiddleware {
	if signedOut == nil {
		signedOut = func(err error) bool { return errors.Is(err, ErrSessionEnded) }
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
		signedOut:  signedOut,
	}
}

// Authenticate validates the bearer token, checks that its sign-in session is
// still open and adds the user ID and session token to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				logger.FromContextOrDefault(r.Context(), slog.Default()).
					Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		user, err := m.sessions.Authenticate(r.Context(), claims.SessionID)
		if err != nil {
			if m.signedOut(err) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Session ended")
				return
			}
			logger.FromContextOrDefault(r.Context(), slog.Default()).
				Error("failed to resolve session", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}
		if user.ID != claims.UserID {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := shared.WithAuth(r.Context(), user.ID, claims.SessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserID(r.Context())
}
