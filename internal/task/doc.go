// Package task runs delayed, cancellable background work. Scheduled tasks
// are keyed so a newer schedule for the same key supersedes the older one,
// and a Scheduler tears down all pending work on Stop.
package task
