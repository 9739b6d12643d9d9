package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published by the services.
const (
	// TypeReminderDue is emitted once per due schedule item.
	TypeReminderDue = "reminder.due"

	// TypeSessionCompleted is emitted when a game session reaches its
	// terminal state.
	TypeSessionCompleted = "game.session_completed"

	// TypeCardsUnflipped is emitted when a mismatched pair is hidden again.
	TypeCardsUnflipped = "game.cards_unflipped"
	// TypeSafeZoneExited is emitted when a patient's location is checked and
	// found outside their safe zone.
	TypeSafeZoneExited = "location.safe_zone_exited"
)

// Event is a domain occurrence published to interested handlers. It carries
// its data as JSON so producers and consumers share no types.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type constants
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// ReminderDuePayload is the payload of TypeReminderDue.
type ReminderDuePayload struct {
	PatientID uuid.UUID `json:"patient_id"`
	ItemID    uuid.UUID `json:"item_id"`
	Title     string    `json:"title"`
	Time      string    `json:"time"`
	DueAt     time.Time `json:"due_at"`
}

// SessionCompletedPayload is the payload of TypeSessionCompleted.
type SessionCompletedPayload struct {
	SessionID uuid.UUID `json:"session_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Variant   string    `json:"variant"`
	Score     int       `json:"score"`
	Moves     int       `json:"moves"`
	Accuracy  float64   `json:"accuracy"`
}

// CardsUnflippedPayload is the payload of TypeCardsUnflipped.
type CardsUnflippedPayload struct {
	SessionID uuid.UUID `json:"session_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Token     uuid.UUID `json:"token"`
}

// SafeZoneExitedPayload is the payload of TypeSafeZoneExited.
type SafeZoneExitedPayload struct {
	PatientID      uuid.UUID `json:"patient_id"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	DistanceMeters float64   `json:"distance_meters"`
	RadiusMeters   float64   `json:"radius_meters"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}

// Emit builds an event and publishes it on emitter. A nil emitter drops the
// event.
func Emit(ctx context.Context, emitter EventEmitter, eventType string, payload interface{}) error {
	if emitter == nil {
		return nil
	}
	event, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}
	return emitter.EmitEvent(ctx, event)
}
