package log

import (
	"context"
	"log/slog"
)

// Tracer receives structured progress events from the calculation engine.
// Implementations must be safe for concurrent use. The engine works
// correctly with NopTracer, so callers that don't care about calculation
// traces can ignore this entirely.
type Tracer interface {
	// Stage reports that the engine entered the named calculation stage.
	Stage(ctx context.Context, stage, msg string, attrs ...slog.Attr)
}

// NopTracer discards all trace events.
type NopTracer struct{}

func (NopTracer) Stage(context.Context, string, string, ...slog.Attr) {}

// SlogTracer forwards trace events to the context logger at debug level.
type SlogTracer struct{}

func (SlogTracer) Stage(ctx context.Context, stage, msg string, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("stage", stage))
	for _, a := range attrs {
		args = append(args, a)
	}
	Ctx(ctx).DebugContext(ctx, msg, args...)
}
