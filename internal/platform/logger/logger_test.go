package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/carecompanion/internal/config"
	"github.com/phrazzld/carecompanion/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level, ok := logger.ParseLevel(tc.name)
			assert.Equal(t, tc.want, level)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

// Setup mutates the slog default, so these tests do not run in parallel.
func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	t.Run("filters below the configured level", func(t *testing.T) {
		buf := &logger.TestLogBuffer{}
		l := logger.SetupWithWriter(config.ServerConfig{LogLevel: "warn"}, buf)

		l.Info("hidden")
		l.Warn("shown", "component", "test")

		entries, err := buf.GetLogEntries()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "shown", entries[0]["msg"])
		assert.Equal(t, "test", entries[0]["component"])
		assert.Same(t, l, slog.Default())
	})

	t.Run("invalid level falls back to info with a warning", func(t *testing.T) {
		buf := &logger.TestLogBuffer{}
		l := logger.SetupWithWriter(config.ServerConfig{LogLevel: "loud"}, buf)
		l.Debug("hidden")

		logger.AssertLogContains(t, buf, "invalid log level configured")
		assert.NotContains(t, buf.String(), "hidden")
	})
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	l, buf := logger.NewTestLogger(t)
	fallback := slog.New(slog.NewJSONHandler(&logger.TestLogBuffer{}, nil))

	ctx := logger.WithLogger(context.Background(), l)
	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, l, logger.FromContextOrDefault(ctx, fallback))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, logger.FromContext(context.Background()))

	logger.FromContext(ctx).Info("through context", "trace_id", "abc")
	logger.AssertLogContains(t, buf, `"trace_id":"abc"`)
}
