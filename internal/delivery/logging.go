package delivery

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type loggerKey struct{}

// WithLogger attaches a slog logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns a slog logger attached to the context, or slog.Default() if absent.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// StartAttempt tags the context logger with a fresh attempt_id and channel.
func StartAttempt(ctx context.Context, channel string) (context.Context, *slog.Logger, string) {
	if ctx == nil {
		ctx = context.Background()
	}
	attemptID := uuid.NewString()
	logger := LoggerFromContext(ctx).With("channel", channel, "attempt_id", attemptID)
	return WithLogger(ctx, logger), logger, attemptID
}
