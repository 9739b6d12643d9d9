package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/events"
	"github.com/phrazzld/carecompanion/internal/mocks"
	"github.com/phrazzld/carecompanion/internal/platform/logger"
	"github.com/phrazzld/carecompanion/internal/platform/memory"
	"github.com/phrazzld/carecompanion/internal/platform/metrics"
	"github.com/phrazzld/carecompanion/internal/task"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type fixture struct {
	store   *memory.Store
	tasks   *task.Scheduler
	emitter *mocks.MockEventEmitter
	metrics *metrics.Collector
	clock   *clock
	sched   *Scheduler
}

func newFixture(t *testing.T, interval time.Duration) *fixture {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	f := &fixture{
		store:   memory.New(),
		tasks:   task.NewScheduler(log),
		emitter: &mocks.MockEventEmitter{},
		metrics: metrics.NewCollector("test"),
		clock:   &clock{now: time.Date(2026, 3, 2, 14, 0, 30, 0, time.UTC)},
	}
	t.Cleanup(f.tasks.Stop)
	f.sched = NewScheduler(f.store.Users, f.store.Schedule, f.tasks, f.emitter, f.metrics,
		Config{Interval: interval, Now: f.clock.Now}, log)
	return f
}

func (f *fixture) addPatient(t *testing.T, email string) uuid.UUID {
	t.Helper()
	u, err := domain.NewUser(email, "password123", domain.RolePatient, "Patient")
	require.NoError(t, err)
	u.HashedPassword = "hash"
	require.NoError(t, f.store.Users.Create(context.Background(), u))
	return u.ID
}

func (f *fixture) addItem(t *testing.T, patientID uuid.UUID, label, title string) {
	t.Helper()
	_, err := f.store.Schedule.Add(context.Background(), domain.ScheduleItem{
		PatientID: patientID,
		Time:      label,
		Title:     title,
		Type:      "activity",
	})
	require.NoError(t, err)
}

func TestEvaluate(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	p1 := f.addPatient(t, "one@example.com")
	p2 := f.addPatient(t, "two@example.com")
	f.addItem(t, p1, "02:00 PM", "Afternoon walk")
	f.addItem(t, p1, "08:00 AM", "Breakfast")
	f.addItem(t, p1, "garbage", "Broken")
	f.addItem(t, p2, "2:00 pm", "Call daughter")

	due, err := f.sched.Evaluate(ctx, f.clock.Now())
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "Afternoon walk", due[0].Title)
	assert.Equal(t, "Call daughter", due[1].Title)

	emitted := f.emitter.Events(events.TypeReminderDue)
	require.Len(t, emitted, 2)
	var payload events.ReminderDuePayload
	require.NoError(t, emitted[0].UnmarshalPayload(&payload))
	assert.Equal(t, p1, payload.PatientID)
	assert.Equal(t, "02:00 PM", payload.Time)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.RemindersDue))

	due, err = f.sched.Evaluate(ctx, f.clock.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDueFor(t *testing.T) {
	f := newFixture(t, 0)
	p := f.addPatient(t, "one@example.com")
	f.addItem(t, p, "02:00 PM", "Afternoon walk")

	for _, tc := range []struct {
		at   time.Time
		want int
	}{
		{time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, 3, 2, 14, 1, 0, 0, time.UTC), 0},
		{time.Date(2026, 3, 2, 13, 59, 0, 0, time.UTC), 0},
	} {
		due, err := f.sched.DueFor(context.Background(), p, tc.at)
		require.NoError(t, err)
		assert.Len(t, due, tc.want, tc.at)
	}
}

func TestNextDelayAlignsToBoundary(t *testing.T) {
	f := newFixture(t, 0)
	assert.Equal(t, 30*time.Second, f.sched.nextDelay())

	f.clock.mu.Lock()
	f.clock.now = time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	f.clock.mu.Unlock()
	assert.Equal(t, time.Minute, f.sched.nextDelay())
}

func TestStartStop(t *testing.T) {
	f := newFixture(t, 20*time.Millisecond)
	p := f.addPatient(t, "one@example.com")
	f.addItem(t, p, "02:00 PM", "Afternoon walk")

	f.sched.Start()
	f.sched.Start()
	assert.True(t, f.sched.Running())

	assert.Eventually(t, func() bool {
		return len(f.emitter.Events(events.TypeReminderDue)) >= 2
	}, 2*time.Second, 5*time.Millisecond, "scheduler re-arms after each tick")

	f.sched.Stop()
	assert.False(t, f.sched.Running())
	assert.False(t, f.tasks.Pending(taskKey))

	// Let a tick that was already running finish.
	time.Sleep(40 * time.Millisecond)
	count := len(f.emitter.Events(""))
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, count, len(f.emitter.Events("")))
	f.sched.Stop()
}
