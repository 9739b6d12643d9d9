package memory

import (
	"context"
	"time"
)

type options struct {
	latency time.Duration
	now     func() time.Time
}

// Option configures a store.
type Option func(*options)

// WithLatency makes every mutating operation wait for d before it takes
// effect. The wait is abandoned, without mutating anything, when the
// context is cancelled.
func WithLatency(d time.Duration) Option {
	return func(o *options) { o.latency = d }
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// suspend waits for the configured latency or until ctx is done.
func (o options) suspend(ctx context.Context) error {
	if o.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(o.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
