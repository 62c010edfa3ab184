// Package logger provides structured logging using log/slog.
// It sets up a JSON handler with service-level context and carries the
// engine instance id through context.Context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey string

const engineIDKey ctxKey = "engine_id"

// Init creates a JSON logger on stdout tagged with service and installs it
// as the slog default.
func Init(service string, level slog.Level) *slog.Logger {
	return initTo(os.Stdout, service, level)
}

func initTo(w io.Writer, service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler).With(
		slog.String("service", service),
	)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps debug|info|warn|error to a level. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// WithEngineID stores an engine id in the context.
func WithEngineID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, engineIDKey, id)
}

// EngineID extracts the engine id from ctx. Returns "" if not set.
func EngineID(ctx context.Context) string {
	if v, ok := ctx.Value(engineIDKey).(string); ok {
		return v
	}
	return ""
}

// Attrs returns slog attributes carried by ctx.
// Usage: log.Info("msg", logger.Attrs(ctx)...)
func Attrs(ctx context.Context) []any {
	id := EngineID(ctx)
	if id == "" {
		return nil
	}
	return []any{slog.String("engine_id", id)}
}
