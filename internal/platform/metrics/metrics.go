// Package metrics exposes Prometheus metrics for the care companion. Each
// Collector owns a private registry, so tests and multiple hosts in one
// process never collide on registration.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application. A nil
// *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	SignIns           *prometheus.CounterVec
	RecordWrites      *prometheus.CounterVec
	RemindersDue      prometheus.Counter
	SessionsStarted   *prometheus.CounterVec
	SessionsCompleted *prometheus.CounterVec
	Moves             *prometheus.CounterVec
	ActiveSessions    prometheus.Gauge
	SafeZoneExits     prometheus.Counter

	// Background work
	TaskFailures *prometheus.CounterVec
}

// NewCollector creates a collector with the given namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SignIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sign_ins_total",
			Help:      "Total number of sign-in attempts by result",
		}, []string{"result"}),
		RecordWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_writes_total",
			Help:      "Total number of owned-record writes",
		}, []string{"kind", "operation"}),
		RemindersDue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_due_total",
			Help:      "Total number of schedule reminders that came due",
		}),
		SessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_sessions_started_total",
			Help:      "Total number of game sessions started",
		}, []string{"variant"}),
		SessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_sessions_completed_total",
			Help:      "Total number of game sessions played to completion",
		}, []string{"variant"}),
		Moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_moves_total",
			Help:      "Total number of game moves by outcome",
		}, []string{"variant", "outcome"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "game_sessions_active",
			Help:      "Number of game sessions in progress",
		}),
		SafeZoneExits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "safe_zone_exits_total",
			Help:      "Total number of location checks outside a patient's safe zone",
		}),
		TaskFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_failures_total",
			Help:      "Total number of scheduled tasks that failed or panicked",
		}, []string{"task"}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.SignIns,
		c.RecordWrites,
		c.RemindersDue,
		c.SessionsStarted,
		c.SessionsCompleted,
		c.Moves,
		c.ActiveSessions,
		c.SafeZoneExits,
		c.TaskFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordSignIn counts a sign-in attempt with result "success" or "failure".
func (c *Collector) RecordSignIn(success bool) {
	if c == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	c.SignIns.WithLabelValues(result).Inc()
}

// RecordWrite counts a successful create, update or remove of a record.
func (c *Collector) RecordWrite(kind, operation string) {
	if c == nil {
		return
	}
	c.RecordWrites.WithLabelValues(kind, operation).Inc()
}

// RecordRemindersDue adds n reminders to the due count.
func (c *Collector) RecordRemindersDue(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.RemindersDue.Add(float64(n))
}

// RecordSessionStarted counts a started session.
func (c *Collector) RecordSessionStarted(variant string) {
	if c == nil {
		return
	}
	c.SessionsStarted.WithLabelValues(variant).Inc()
	c.ActiveSessions.Inc()
}

// RecordSessionEnded counts a session leaving the active set.
func (c *Collector) RecordSessionEnded(variant string, completed bool) {
	if c == nil {
		return
	}
	if completed {
		c.SessionsCompleted.WithLabelValues(variant).Inc()
	}
	c.ActiveSessions.Dec()
}

// RecordMove counts an applied move.
func (c *Collector) RecordMove(variant, outcome string) {
	if c == nil {
		return
	}
	c.Moves.WithLabelValues(variant, outcome).Inc()
}

// RecordSafeZoneExit counts a location found outside a safe zone.
func (c *Collector) RecordSafeZoneExit() {
	if c == nil {
		return
	}
	c.SafeZoneExits.Inc()
}

// RecordTaskFailure counts a failed scheduled task by task name.
func (c *Collector) RecordTaskFailure(task string) {
	if c == nil {
		return
	}
	c.TaskFailures.WithLabelValues(task).Inc()
}
