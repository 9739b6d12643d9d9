package facade

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/domain/game"
	"github.com/phrazzld/carecompanion/internal/events"
	"github.com/phrazzld/carecompanion/internal/platform/memory"
	"github.com/phrazzld/carecompanion/internal/platform/metrics"
	"github.com/phrazzld/carecompanion/internal/service"
	"github.com/phrazzld/carecompanion/internal/service/auth"
	"github.com/phrazzld/carecompanion/internal/service/identity"
	"github.com/phrazzld/carecompanion/internal/service/play"
	"github.com/phrazzld/carecompanion/internal/service/records"
	"github.com/phrazzld/carecompanion/internal/service/reminder"
	"github.com/phrazzld/carecompanion/internal/task"
)

// ErrNotSignedIn is returned for an unknown or signed-out session token.
var ErrNotSignedIn = errors.New("not signed in")

// DefaultRouteTolerance is how far, in meters, a patient may be from a
// walking route and still count as on it.
const DefaultRouteTolerance = 50.0

const sessionSweepKey = "session.sweep"

// Session is a signed-in user. The token identifies it until sign-out.
type Session struct {
	Token     uuid.UUID    `json:"token"`
	User      *domain.User `json:"user"`
	CreatedAt time.Time    `json:"created_at"`
}

// Options configures a Facade. Zero values select defaults.
type Options struct {
	Hasher   auth.PasswordHasher
	Verifier auth.PasswordVerifier
	Metrics  *metrics.Collector
	Emitter  events.EventEmitter
	Game     play.Config
	// ReminderInterval is the cadence of the reminder scheduler.
	ReminderInterval time.Duration
	// RouteToleranceMeters bounds RouteStatus's on-route check.
	RouteToleranceMeters float64
	// SafeZoneRadiusMeters is used by SetSafeZone when no radius is given.
	SafeZoneRadiusMeters float64
	// SessionLifetime ends sign-in sessions this long after they open.
	// Zero keeps them until sign-out.
	SessionLifetime time.Duration
	Now             func() time.Time
}

// Facade composes the services over one store.
type Facade struct {
	Identity    *identity.Service
	Medications *records.Medications
	Schedule    *records.Schedule
	Routes      *records.Routes
	Photos      *records.Photos
	Games       *records.GameDefinitions

	play            *play.Manager
	reminders       *reminder.Scheduler
	tasks           *task.Scheduler
	auth            *records.Authorizer
	emitter         events.EventEmitter
	metrics         *metrics.Collector
	tolerance       float64
	safeZoneRadius  float64
	sessionLifetime time.Duration
	now             func() time.Time
	logger          *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	closed   bool
}

// New wires a Facade over st. The reminder scheduler is created stopped;
// call StartReminders to arm it.
func New(st *memory.Store, opts Options, logger *slog.Logger) *Facade {
	if opts.Hasher == nil {
		opts.Hasher = auth.NewBcryptHasher(0)
	}
	if opts.Verifier == nil {
		opts.Verifier = auth.NewBcryptVerifier()
	}
	if opts.RouteToleranceMeters <= 0 {
		opts.RouteToleranceMeters = DefaultRouteTolerance
	}
	if opts.SafeZoneRadiusMeters <= 0 {
		opts.SafeZoneRadiusMeters = domain.DefaultSafeZoneRadius
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Game.Now == nil {
		opts.Game.Now = opts.Now
	}

	authz := records.NewAuthorizer(st.Users)
	tasks := task.NewScheduler(logger)
	tasks.SetErrorHandler(func(key string, err error) {
		name, _, _ := strings.Cut(key, ":")
		logger.Error("scheduled task failed", "task", name, "key", key, "error", err)
		opts.Metrics.RecordTaskFailure(name)
	})

	f := &Facade{
		Identity:    identity.NewService(st.Users, opts.Hasher, opts.Verifier, opts.Metrics, logger),
		Medications: records.NewService[domain.Medication, domain.MedicationPatch](st.Medications, authz, opts.Metrics, logger),
		Schedule:    records.NewService[domain.ScheduleItem, domain.ScheduleItemPatch](st.Schedule, authz, opts.Metrics, logger),
		Routes:      records.NewService[domain.WalkingRoute, domain.WalkingRoutePatch](st.Routes, authz, opts.Metrics, logger),
		Photos:      records.NewService[domain.FamilyPhoto, domain.FamilyPhotoPatch](st.Photos, authz, opts.Metrics, logger),
		Games:       records.NewGameDefinitions(st.GameDefinitions, authz, opts.Metrics, logger),

		play: play.NewManager(st.Users, st.GameDefinitions, authz, tasks, opts.Emitter, opts.Metrics,
			opts.Game, logger),
		reminders: reminder.NewScheduler(st.Users, st.Schedule, tasks, opts.Emitter, opts.Metrics,
			reminder.Config{Interval: opts.ReminderInterval, Now: opts.Now}, logger),
		tasks:           tasks,
		auth:            authz,
		emitter:         opts.Emitter,
		metrics:         opts.Metrics,
		tolerance:       opts.RouteToleranceMeters,
		safeZoneRadius:  opts.SafeZoneRadiusMeters,
		sessionLifetime: opts.SessionLifetime,
		now:             opts.Now,
		logger:          logger.With("component", "facade"),
		sessions:        make(map[uuid.UUID]*Session),
	}
	if f.sessionLifetime > 0 {
		tasks.Schedule(sessionSweepKey, f.sessionLifetime, f.sweepSessions)
	}
	return f
}

// SignIn checks credentials and opens a session.
func (f *Facade) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := f.Identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return f.openSession(user), nil
}

// SignUp registers a user and signs them in.
func (f *Facade) SignUp(
	ctx context.Context,
	email, password string,
	role domain.Role,
	name string,
) (*Session, error) {
	user, err := f.Identity.SignUp(ctx, email, password, role, name)
	if err != nil {
		return nil, err
	}
	return f.openSession(user), nil
}

func (f *Facade) openSession(user *domain.User) *Session {
	s := &Session{Token: uuid.New(), User: user, CreatedAt: f.now().UTC()}
	f.mu.Lock()
	f.sessions[s.Token] = s
	f.mu.Unlock()
	return s
}

// SignOut ends a session. Unknown tokens are ignored.
func (f *Facade) SignOut(token uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[token]; ok {
		delete(f.sessions, token)
		f.logger.Debug("signed out", "user_id", s.User.ID)
	}
}

// Authenticate resolves a session token to the current state of its user.
// Returns ErrNotSignedIn for unknown, expired or signed-out tokens.
func (f *Facade) Authenticate(ctx context.Context, token uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	s, ok := f.sessions[token]
	if ok && f.expired(s, f.now()) {
		delete(f.sessions, token)
		ok = false
		f.logger.Debug("session expired", "user_id", s.User.ID)
	}
	f.mu.Unlock()
	if !ok {
		return nil, ErrNotSignedIn
	}

	// Links change after sign-in; read the user fresh.
	user, err := f.Identity.GetUser(ctx, s.User.ID)
	if err != nil {
		return nil, ErrNotSignedIn
	}
	return user, nil
}

// OpenSessions returns the number of signed-in sessions.
func (f *Facade) OpenSessions() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sessions)
}

func (f *Facade) expired(s *Session, now time.Time) bool {
	return f.sessionLifetime > 0 && !now.Before(s.CreatedAt.Add(f.sessionLifetime))
}

// sweepSessions drops expired sessions and re-arms itself.
func (f *Facade) sweepSessions(ctx context.Context) error {
	now := f.now()
	f.mu.Lock()
	removed := 0
	for token, s := range f.sessions {
		if f.expired(s, now) {
			delete(f.sessions, token)
			removed++
		}
	}
	closed := f.closed
	f.mu.Unlock()

	if removed > 0 {
		f.logger.Debug("expired sessions removed", "count", removed)
	}
	if !closed {
		f.tasks.Schedule(sessionSweepKey, f.sessionLifetime, f.sweepSessions)
	}
	return nil
}

// ConnectToPatient links the caretaker to the patient.
func (f *Facade) ConnectToPatient(ctx context.Context, caretakerID, patientID uuid.UUID) error {
	return f.Identity.ConnectToPatient(ctx, caretakerID, patientID)
}

// GetPatientDetails looks up a patient by id.
func (f *Facade) GetPatientDetails(ctx context.Context, patientID uuid.UUID) (*domain.User, bool) {
	return f.Identity.GetPatientDetails(ctx, patientID)
}

// LinkedPatients returns the caretaker's patients.
func (f *Facade) LinkedPatients(ctx context.Context, caretakerID uuid.UUID) ([]*domain.User, error) {
	return f.Identity.LinkedPatients(ctx, caretakerID)
}

// CompleteScheduleItem marks a schedule item done.
func (f *Facade) CompleteScheduleItem(ctx context.Context, callerID, itemID uuid.UUID) (domain.ScheduleItem, error) {
	done := true
	return f.Schedule.Update(ctx, callerID, itemID, domain.ScheduleItemPatch{Completed: &done})
}

// RouteStatus reports where a location is relative to a walking route.
type RouteStatus struct {
	RouteID uuid.UUID `json:"route_id"`
	// DistanceMeters is the distance from the location to the nearest
	// point of the route.
	DistanceMeters  float64 `json:"distance_meters"`
	LengthMeters    float64 `json:"length_meters"`
	ToleranceMeters float64 `json:"tolerance_meters"`
	OnRoute         bool    `json:"on_route"`
}

// RouteStatus measures location against a route the caller may read.
func (f *Facade) RouteStatus(
	ctx context.Context,
	callerID, routeID uuid.UUID,
	location domain.Coordinate,
) (RouteStatus, error) {
	route, err := f.Routes.Get(ctx, callerID, routeID)
	if err != nil {
		return RouteStatus{}, err
	}
	if err := location.Validate(); err != nil {
		return RouteStatus{}, err
	}

	d := route.DistanceFrom(location)
	return RouteStatus{
		RouteID:         route.ID,
		DistanceMeters:  d,
		LengthMeters:    route.Length(),
		ToleranceMeters: f.tolerance,
		OnRoute:         d <= f.tolerance,
	}, nil
}

// SetSafeZone sets the area around center a patient may walk in. A
// non-positive radius selects the configured default. The patient and their
// caretaker may set it.
func (f *Facade) SetSafeZone(
	ctx context.Context,
	callerID, patientID uuid.UUID,
	center domain.Coordinate,
	radiusMeters float64,
) (domain.SafeZone, error) {
	if err := f.auth.Authorize(ctx, callerID, patientID); err != nil {
		return domain.SafeZone{}, err
	}
	if radiusMeters <= 0 {
		radiusMeters = f.safeZoneRadius
	}

	zone := domain.SafeZone{Center: center, RadiusMeters: radiusMeters}
	if _, err := f.Identity.SetSafeZone(ctx, patientID, zone); err != nil {
		return domain.SafeZone{}, err
	}
	return zone, nil
}

// SafeZoneStatus reports where a location is relative to a patient's safe
// zone.
type SafeZoneStatus struct {
	PatientID uuid.UUID       `json:"patient_id"`
	Zone      domain.SafeZone `json:"zone"`
	// DistanceMeters is the distance from the zone's center.
	DistanceMeters float64 `json:"distance_meters"`
	Inside         bool    `json:"inside"`
}

// SafeZoneStatus measures location against the patient's safe zone. A
// location outside the zone emits a safe-zone-exited event.
// Returns service.ErrNoSafeZone when none is set.
func (f *Facade) SafeZoneStatus(
	ctx context.Context,
	callerID, patientID uuid.UUID,
	location domain.Coordinate,
) (SafeZoneStatus, error) {
	if err := f.auth.Authorize(ctx, callerID, patientID); err != nil {
		return SafeZoneStatus{}, err
	}
	if err := location.Validate(); err != nil {
		return SafeZoneStatus{}, err
	}

	patient, ok := f.Identity.GetPatientDetails(ctx, patientID)
	if !ok {
		return SafeZoneStatus{}, service.ErrPatientNotFound
	}
	if patient.SafeZone == nil {
		return SafeZoneStatus{}, service.ErrNoSafeZone
	}

	zone := *patient.SafeZone
	status := SafeZoneStatus{
		PatientID:      patientID,
		Zone:           zone,
		DistanceMeters: domain.DistanceMeters(zone.Center, location),
		Inside:         zone.Contains(location),
	}
	if !status.Inside {
		f.metrics.RecordSafeZoneExit()
		f.logger.Info("patient outside safe zone",
			"patient_id", patientID,
			"distance_meters", status.DistanceMeters)
		err := events.Emit(ctx, f.emitter, events.TypeSafeZoneExited, events.SafeZoneExitedPayload{
			PatientID:      patientID,
			Latitude:       location.Latitude,
			Longitude:      location.Longitude,
			DistanceMeters: status.DistanceMeters,
			RadiusMeters:   zone.RadiusMeters,
		})
		if err != nil {
			f.logger.Warn("failed to emit event", "event_type", events.TypeSafeZoneExited, "error", err)
		}
	}
	return status, nil
}

// DueReminders returns the schedule items due at now: a patient's own, or
// those of every patient a caretaker looks after.
func (f *Facade) DueReminders(ctx context.Context, callerID uuid.UUID, now time.Time) ([]domain.ScheduleItem, error) {
	caller, err := f.Identity.GetUser(ctx, callerID)
	if err != nil {
		return nil, ErrNotSignedIn
	}

	patientIDs := []uuid.UUID{caller.ID}
	if caller.IsCaretaker() {
		patientIDs = caller.LinkedPatientIDs
	}

	due := make([]domain.ScheduleItem, 0)
	for _, id := range patientIDs {
		if err := f.auth.Authorize(ctx, callerID, id); err != nil {
			continue
		}
		items, err := f.reminders.DueFor(ctx, id, now)
		if err != nil {
			return nil, err
		}
		due = append(due, items...)
	}
	return due, nil
}

// StartSession starts a game from one of the caller's definitions.
func (f *Facade) StartSession(ctx context.Context, callerID, definitionID uuid.UUID) (game.SessionView, error) {
	return f.play.Start(ctx, callerID, definitionID)
}

// ApplyMove plays a move in the caller's session.
func (f *Facade) ApplyMove(ctx context.Context, callerID, sessionID uuid.UUID, m game.Move) (game.MoveResult, error) {
	return f.play.Move(ctx, callerID, sessionID, m)
}

// GameSession returns a snapshot of the caller's session.
func (f *Facade) GameSession(ctx context.Context, callerID, sessionID uuid.UUID) (game.SessionView, error) {
	return f.play.Session(ctx, callerID, sessionID)
}

// EndSession destroys the caller's session and its timers.
func (f *Facade) EndSession(ctx context.Context, callerID, sessionID uuid.UUID) error {
	return f.play.End(ctx, callerID, sessionID)
}

// ActivitySummary returns a patient's game record.
func (f *Facade) ActivitySummary(ctx context.Context, callerID, patientID uuid.UUID) (play.ActivitySummary, error) {
	return f.play.Summary(ctx, callerID, patientID)
}

// StartReminders arms the periodic reminder check.
func (f *Facade) StartReminders() {
	f.reminders.Start()
}

// EvaluateReminders runs one reminder check for every patient at now,
// emitting an event per due item.
func (f *Facade) EvaluateReminders(ctx context.Context, now time.Time) ([]domain.ScheduleItem, error) {
	return f.reminders.Evaluate(ctx, now)
}

// Close stops the reminder scheduler, ends every game session and cancels
// all pending timers. Close is idempotent.
func (f *Facade) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.sessions = make(map[uuid.UUID]*Session)
	f.mu.Unlock()

	f.reminders.Stop()
	f.play.Close()
	f.tasks.Stop()
	f.logger.Info("facade closed")
}
