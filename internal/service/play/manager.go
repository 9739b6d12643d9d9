// Package play hosts game sessions: it creates them from game definitions,
// serializes moves, runs the unflip timers that hide mismatched pairs and
// keeps each patient's activity summary.
package play

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/domain/game"
	"github.com/phrazzld/carecompanion/internal/events"
	"github.com/phrazzld/carecompanion/internal/platform/metrics"
	"github.com/phrazzld/carecompanion/internal/service"
	"github.com/phrazzld/carecompanion/internal/service/records"
	"github.com/phrazzld/carecompanion/internal/store"
	"github.com/phrazzld/carecompanion/internal/task"
)

// ErrNotSessionOwner is returned when someone other than the playing patient
// acts on a session.
var ErrNotSessionOwner = fmt.Errorf("%w: session belongs to another patient", domain.ErrNotAuthorized)

type entry struct {
	session *game.Session
	// accounted is set once the session's play time is in the summary.
	accounted bool
}

// Config holds the manager's dependencies that have defaults.
type Config struct {
	Rules   game.Rules
	Catalog *game.Catalog
	// Rand drives the pair-matching shuffle. Nil uses the global source.
	Rand *rand.Rand
	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Manager owns the live game sessions.
type Manager struct {
	users       store.UserStore
	definitions store.RecordStore[domain.GameDefinition]
	auth        *records.Authorizer
	tasks       *task.Scheduler
	emitter     events.EventEmitter
	metrics     *metrics.Collector
	logger      *slog.Logger
	cfg         Config

	mu        sync.Mutex
	sessions  map[uuid.UUID]*entry
	summaries map[uuid.UUID]*ActivitySummary
}

// NewManager creates a session manager. emitter and m may be nil.
func NewManager(
	users store.UserStore,
	definitions store.RecordStore[domain.GameDefinition],
	auth *records.Authorizer,
	tasks *task.Scheduler,
	emitter events.EventEmitter,
	m *metrics.Collector,
	cfg Config,
	logger *slog.Logger,
) *Manager {
	if cfg.Catalog == nil {
		cfg.Catalog = game.DefaultCatalog()
	}
	if cfg.Rules == (game.Rules{}) {
		cfg.Rules = game.DefaultRules()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		users:       users,
		definitions: definitions,
		auth:        auth,
		tasks:       tasks,
		emitter:     emitter,
		metrics:     m,
		logger:      logger.With("component", "play_manager"),
		cfg:         cfg,
		sessions:    make(map[uuid.UUID]*entry),
		summaries:   make(map[uuid.UUID]*ActivitySummary),
	}
}

// Start creates a session for one of the caller's game definitions.
// Returns service.ErrNotPatient, store.ErrRecordNotFound or
// ErrNotSessionOwner when the definition belongs to another patient.
func (m *Manager) Start(ctx context.Context, callerID, definitionID uuid.UUID) (game.SessionView, error) {
	caller, err := m.users.GetByID(ctx, callerID)
	if err != nil || !caller.IsPatient() {
		return game.SessionView{}, service.ErrNotPatient
	}

	def, err := m.definitions.Get(ctx, definitionID)
	if err != nil {
		return game.SessionView{}, err
	}
	if def.PatientID != callerID {
		return game.SessionView{}, ErrNotSessionOwner
	}

	m.mu.Lock()
	// Rand is not safe for concurrent use; the lock serializes it.
	s, err := game.NewSession(def, m.cfg.Catalog, m.cfg.Rules, m.cfg.Rand, m.cfg.Now())
	if err != nil {
		m.mu.Unlock()
		return game.SessionView{}, err
	}
	m.sessions[s.ID] = &entry{session: s}
	m.summaryLocked(callerID).GamesStarted++
	view := s.View()
	m.mu.Unlock()

	m.metrics.RecordSessionStarted(string(s.Variant))
	m.logger.Info("game session started",
		"session_id", s.ID,
		"patient_id", callerID,
		"variant", s.Variant,
		"difficulty", s.Difficulty)
	return view, nil
}

// Move applies a move to one of the caller's sessions. The move that
// completes a session also destroys it; the result carries the final view.
// Returns service.ErrSessionNotFound, ErrNotSessionOwner or an error
// wrapping game.ErrInvalidMove; a rejected move leaves the session unchanged.
func (m *Manager) Move(ctx context.Context, callerID, sessionID uuid.UUID, mv game.Move) (game.MoveResult, error) {
	m.mu.Lock()
	e, err := m.lookupLocked(callerID, sessionID)
	if err != nil {
		m.mu.Unlock()
		return game.MoveResult{}, err
	}
	s := e.session
	now := m.cfg.Now()

	res, err := s.ApplyMove(mv, now)
	if err != nil {
		m.mu.Unlock()
		return game.MoveResult{}, err
	}

	completed := res.Outcome == game.OutcomeComplete
	switch {
	case res.Unflip != nil:
		m.scheduleUnflip(s.ID, res.Unflip)
	case completed:
		m.tasks.Cancel(unflipKey(s.ID))
		m.accountLocked(e, true)
		delete(m.sessions, s.ID)
	default:
		if _, pending := s.PendingUnflip(); !pending {
			// A match or a reveal that settled the old pair.
			m.tasks.Cancel(unflipKey(s.ID))
		}
	}
	accuracy := s.Accuracy()
	m.mu.Unlock()

	m.metrics.RecordMove(string(s.Variant), string(res.Outcome))
	if completed {
		m.metrics.RecordSessionEnded(string(s.Variant), true)
		m.logger.Info("game session completed",
			"session_id", s.ID,
			"patient_id", s.PatientID,
			"score", res.View.Score,
			"moves", res.View.Moves)
		m.emit(ctx, events.TypeSessionCompleted, events.SessionCompletedPayload{
			SessionID: s.ID,
			PatientID: s.PatientID,
			Variant:   string(s.Variant),
			Score:     res.View.Score,
			Moves:     res.View.Moves,
			Accuracy:  accuracy,
		})
	}
	return res, nil
}

// Session returns a snapshot of one of the caller's sessions.
func (m *Manager) Session(ctx context.Context, callerID, sessionID uuid.UUID) (game.SessionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookupLocked(callerID, sessionID)
	if err != nil {
		return game.SessionView{}, err
	}
	return e.session.View(), nil
}

// End destroys a session and cancels its timers. Time spent in an unfinished
// session still counts towards the summary. Completed sessions are already
// gone, so ending one returns service.ErrSessionNotFound.
// Returns service.ErrSessionNotFound or ErrNotSessionOwner.
func (m *Manager) End(ctx context.Context, callerID, sessionID uuid.UUID) error {
	m.mu.Lock()
	e, err := m.lookupLocked(callerID, sessionID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	delete(m.sessions, sessionID)
	m.tasks.Cancel(unflipKey(sessionID))
	m.accountLocked(e, false)
	m.mu.Unlock()

	m.metrics.RecordSessionEnded(string(e.session.Variant), false)
	m.logger.Info("game session ended", "session_id", sessionID, "state", e.session.State)
	return nil
}

// Active returns the number of live sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close ends every session and cancels every pending unflip.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.sessions {
		m.tasks.Cancel(unflipKey(id))
		m.metrics.RecordSessionEnded(string(e.session.Variant), false)
		delete(m.sessions, id)
	}
}

func (m *Manager) lookupLocked(callerID, sessionID uuid.UUID) (*entry, error) {
	e, ok := m.sessions[sessionID]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	if e.session.PatientID != callerID {
		return nil, ErrNotSessionOwner
	}
	return e, nil
}

func unflipKey(sessionID uuid.UUID) string {
	return "unflip:" + sessionID.String()
}

func (m *Manager) scheduleUnflip(sessionID uuid.UUID, req *game.UnflipRequest) {
	token := req.Token
	m.tasks.Schedule(unflipKey(sessionID), req.Delay, func(ctx context.Context) error {
		return m.resolveUnflip(ctx, sessionID, token)
	})
}

// resolveUnflip runs when an unflip timer fires. The session may have been
// ended or moved on in the meantime; then it does nothing.
func (m *Manager) resolveUnflip(ctx context.Context, sessionID, token uuid.UUID) error {
	m.mu.Lock()
	e, ok := m.sessions[sessionID]
	if !ok || !e.session.ResolveUnflip(token) {
		m.mu.Unlock()
		return nil
	}
	patientID := e.session.PatientID
	m.mu.Unlock()

	m.logger.Debug("mismatched cards hidden", "session_id", sessionID)
	m.emit(ctx, events.TypeCardsUnflipped, events.CardsUnflippedPayload{
		SessionID: sessionID,
		PatientID: patientID,
		Token:     token,
	})
	return nil
}

func (m *Manager) emit(ctx context.Context, eventType string, payload interface{}) {
	if err := events.Emit(ctx, m.emitter, eventType, payload); err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Warn("failed to emit event", "event_type", eventType, "error", err)
	}
}
