package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/carecompanion/internal/events"
)

// MockEventEmitter implements events.EventEmitter and records every event.
type MockEventEmitter struct {
	mu     sync.Mutex
	events []*events.Event

	// EmitErr, when set, is returned by EmitEvent after recording the event.
	EmitErr error
}

// EmitEvent implements events.EventEmitter.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.EmitErr
}

// Events returns the recorded events of the given type, or all events when
// eventType is empty.
func (m *MockEventEmitter) Events(eventType string) []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.Event, 0, len(m.events))
	for _, e := range m.events {
		if eventType == "" || e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
