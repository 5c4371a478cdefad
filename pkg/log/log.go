// Package log carries a request-scoped slog logger through the context and
// hosts the Tracer the calculation engine emits stage events to. The engine
// attaches a per-run logger (run ID and friends) via With; everything below
// it logs through Ctx so the attributes follow the call chain.
package log

import (
	"context"
	"log/slog"
	"os"
)

var (
	defaultLogLevel slog.LevelVar
	defaultLogger   = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     &defaultLogLevel,
	}))
)

func init() {
	defaultLogLevel.Set(slog.LevelInfo)
}

type contextKey struct{}

var loggerKey = contextKey{}

// Ctx returns the logger carried by the context, or the default logger when
// none was attached.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a new context carrying the given logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// SetDefaultLogLevel adjusts the level of the fallback logger used when a
// context carries none.
func SetDefaultLogLevel(level slog.Level) {
	defaultLogLevel.Set(level)
}
