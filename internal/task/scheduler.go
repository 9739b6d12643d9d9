package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Func is the work run when a scheduled task fires. ctx is cancelled when
// the scheduler stops.
type Func func(ctx context.Context) error

type entry struct {
	timer *time.Timer
}

// Scheduler runs one-shot tasks after a delay. At most one task is pending
// per key. A task that fires after it was cancelled, superseded, or after
// Stop does nothing.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*entry
	stopped bool

	// wg tracks scheduled tasks until they run or are cancelled
	wg sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	logger *slog.Logger

	// errHandler is called when a task returns an error
	errHandler func(key string, err error)
}

// NewScheduler creates a running scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		pending: make(map[string]*entry),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger.With("component", "task_scheduler"),
	}
	s.errHandler = func(key string, err error) {
		// Default error handler just logs the error
		s.logger.Error("scheduled task failed", "key", key, "error", err)
	}
	return s
}

// SetErrorHandler allows setting a custom error handler function
func (s *Scheduler) SetErrorHandler(handler func(key string, err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errHandler = handler
}

// Schedule runs fn after delay, replacing any task pending under key.
// It reports false, scheduling nothing, once the scheduler is stopped.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn Func) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	s.cancelLocked(key)

	e := &entry{}
	s.wg.Add(1)
	e.timer = time.AfterFunc(delay, func() { s.fire(key, e, fn) })
	s.pending[key] = e
	return true
}

// Cancel drops the task pending under key. It reports whether a task was
// pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(key)
}

// Pending reports whether a task is waiting under key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels every pending task and waits for running ones to return.
// Stop is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	count := len(s.pending)
	for key := range s.pending {
		s.cancelLocked(key)
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.logger.Debug("scheduler stopped", "cancelled_tasks", count)
}

func (s *Scheduler) cancelLocked(key string) bool {
	e, ok := s.pending[key]
	if !ok {
		return false
	}
	delete(s.pending, key)
	// A timer that already fired settles the wait group in fire.
	if e.timer.Stop() {
		s.wg.Done()
	}
	return true
}

func (s *Scheduler) fire(key string, e *entry, fn Func) {
	defer s.wg.Done()

	s.mu.Lock()
	if s.stopped || s.pending[key] != e {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	handler := s.errHandler
	s.mu.Unlock()

	if err := s.run(fn); err != nil {
		handler(key, err)
	}
}

func (s *Scheduler) run(fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn(s.ctx)
}
