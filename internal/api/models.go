package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
)

// RegisterRequest defines the payload for the sign-up endpoint.
type RegisterRequest struct {
	Email    string      `json:"email"    validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Role     domain.Role `json:"role"     validate:"required,oneof=patient caretaker"`
	Name     string      `json:"name"     validate:"required,max=120"`
}

// LoginRequest defines the payload for the sign-in endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// User is the signed-in user without credentials.
	User *domain.User `json:"user"`

	// AccessToken is the JWT token used for API authorization.
	AccessToken string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RouteStatusRequest carries the patient's current location. Safe zone
// checks take the same body.
type RouteStatusRequest struct {
	Latitude  float64 `json:"latitude"  validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// SafeZoneRequest sets a patient's safe zone. A zero radius selects the
// server default.
type SafeZoneRequest struct {
	Latitude     float64 `json:"latitude"      validate:"latitude"`
	Longitude    float64 `json:"longitude"     validate:"longitude"`
	RadiusMeters float64 `json:"radius_meters" validate:"gte=0,lte=100000"`
}

// StartSessionRequest names the game definition to play.
type StartSessionRequest struct {
	DefinitionID uuid.UUID `json:"definition_id" validate:"required"`
}

// DueRemindersResponse lists the schedule items due at At.
type DueRemindersResponse struct {
	At    time.Time             `json:"at"`
	Items []domain.ScheduleItem `json:"items"`
}

// ActivitySummaryResponse adds the derived accuracy to a summary.
type ActivitySummaryResponse struct {
	Summary  any     `json:"summary"`
	Accuracy float64 `json:"accuracy"`
}
