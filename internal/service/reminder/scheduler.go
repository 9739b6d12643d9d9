// Package reminder runs the periodic schedule check: on every tick it
// evaluates each patient's schedule and emits a reminder.due event per item
// that falls due.
package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
	rem "github.com/phrazzld/carecompanion/internal/domain/reminder"
	"github.com/phrazzld/carecompanion/internal/events"
	"github.com/phrazzld/carecompanion/internal/platform/metrics"
	"github.com/phrazzld/carecompanion/internal/store"
	"github.com/phrazzld/carecompanion/internal/task"
)

const taskKey = "reminder.tick"

// Scheduler evaluates due reminders on wall-clock boundaries of its
// interval. With the default one-minute interval it fires at :00 of every
// minute.
type Scheduler struct {
	users    store.UserStore
	schedule store.RecordStore[domain.ScheduleItem]
	tasks    *task.Scheduler
	emitter  events.EventEmitter
	metrics  *metrics.Collector
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	running bool
}

// Config holds the scheduler's tunables.
type Config struct {
	// Interval between evaluations. Zero means one minute.
	Interval time.Duration
	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// NewScheduler creates a stopped scheduler. emitter and m may be nil.
func NewScheduler(
	users store.UserStore,
	schedule store.RecordStore[domain.ScheduleItem],
	tasks *task.Scheduler,
	emitter events.EventEmitter,
	m *metrics.Collector,
	cfg Config,
	logger *slog.Logger,
) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scheduler{
		users:    users,
		schedule: schedule,
		tasks:    tasks,
		emitter:  emitter,
		metrics:  m,
		logger:   logger.With("component", "reminder_scheduler"),
		interval: cfg.Interval,
		now:      cfg.Now,
	}
}

// Start arms the scheduler for the next boundary. Starting a running
// scheduler does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.armLocked()
	s.logger.Info("reminder scheduler started", "interval", s.interval)
}

// Stop cancels the pending evaluation. A tick already running finishes but
// does not re-arm.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.tasks.Cancel(taskKey)
	s.logger.Info("reminder scheduler stopped")
}

// Running reports whether the scheduler is armed.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// nextDelay is the time from now to the next interval boundary.
func (s *Scheduler) nextDelay() time.Duration {
	now := s.now()
	return rem.NextBoundary(now, s.interval).Sub(now)
}

func (s *Scheduler) armLocked() {
	s.tasks.Schedule(taskKey, s.nextDelay(), s.tick)
}

func (s *Scheduler) tick(ctx context.Context) error {
	_, err := s.Evaluate(ctx, s.now())

	s.mu.Lock()
	if s.running {
		s.armLocked()
	}
	s.mu.Unlock()
	return err
}

// Evaluate finds the items of every patient due at now and emits one
// reminder.due event per item. It returns the due items.
func (s *Scheduler) Evaluate(ctx context.Context, now time.Time) ([]domain.ScheduleItem, error) {
	patients, err := s.users.ListByRole(ctx, domain.RolePatient)
	if err != nil {
		s.logger.Error("failed to list patients", "error", err)
		return nil, err
	}

	all := make([]domain.ScheduleItem, 0)
	for _, p := range patients {
		due, err := s.DueFor(ctx, p.ID, now)
		if err != nil {
			s.logger.Error("failed to evaluate schedule", "patient_id", p.ID, "error", err)
			continue
		}
		for _, item := range due {
			s.emit(ctx, item, now)
		}
		all = append(all, due...)
	}

	s.metrics.RecordRemindersDue(len(all))
	if len(all) > 0 {
		s.logger.Info("reminders due", "count", len(all), "at", rem.FormatTimeLabel(now.Hour(), now.Minute()))
	}
	return all, nil
}

// DueFor returns the patient's items due at now.
func (s *Scheduler) DueFor(ctx context.Context, patientID uuid.UUID, now time.Time) ([]domain.ScheduleItem, error) {
	items, err := s.schedule.ListFor(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return rem.DueReminders(now, items), nil
}

func (s *Scheduler) emit(ctx context.Context, item domain.ScheduleItem, now time.Time) {
	err := events.Emit(ctx, s.emitter, events.TypeReminderDue, events.ReminderDuePayload{
		PatientID: item.PatientID,
		ItemID:    item.ID,
		Title:     item.Title,
		Time:      item.Time,
		DueAt:     now,
	})
	if err != nil {
		s.logger.Warn("failed to emit reminder", "item_id", item.ID, "error", err)
	}
}
