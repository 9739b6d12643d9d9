// Package logger sets up the process-wide JSON slog logger from the server
// configuration and carries request-scoped loggers in a context.Context.
// Test helpers capture log output in memory for assertions.
package logger
