package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Bus is an in-memory EventEmitter that routes events by type. Handlers
// subscribed to a type receive only events of that type; handlers subscribed
// without a type receive every event, after the typed ones.
type Bus struct {
	mu       sync.RWMutex
	byType   map[string][]EventHandler
	wildcard []EventHandler
	logger   *slog.Logger
}

// NewBus creates a bus with no subscribers.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		byType: make(map[string][]EventHandler),
		logger: logger.With("component", "event_bus"),
	}
}

// Subscribe registers h for the given event types, or for every event when
// no type is given.
func (b *Bus) Subscribe(h EventHandler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, h)
		b.logger.Debug("subscribed handler to all events")
		return
	}
	for _, t := range eventTypes {
		b.byType[t] = append(b.byType[t], h)
	}
	b.logger.Debug("subscribed handler", "event_types", eventTypes)
}

// On subscribes fn to eventType, decoding each event's payload into P first.
func On[P any](b *Bus, eventType string, fn func(ctx context.Context, payload P) error) {
	b.Subscribe(HandlerFunc(func(ctx context.Context, event *Event) error {
		var payload P
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to unmarshal %s payload: %w", eventType, err)
		}
		return fn(ctx, payload)
	}), eventType)
}

func (b *Bus) handlersFor(eventType string) []EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	typed := b.byType[eventType]
	handlers := make([]EventHandler, 0, len(typed)+len(b.wildcard))
	handlers = append(handlers, typed...)
	return append(handlers, b.wildcard...)
}

// EmitEvent delivers event to its subscribers in order. A failing handler
// does not stop delivery; all failures are returned joined.
func (b *Bus) EmitEvent(ctx context.Context, event *Event) error {
	handlers := b.handlersFor(event.Type)
	if len(handlers) == 0 {
		b.logger.Debug("no subscribers for event",
			"event_id", event.ID,
			"event_type", event.Type)
		return nil
	}

	var errs []error
	for _, h := range handlers {
		if err := h.HandleEvent(ctx, event); err != nil {
			b.logger.ErrorContext(ctx, "event handler failed",
				"error", err,
				"event_id", event.ID,
				"event_type", event.Type)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
