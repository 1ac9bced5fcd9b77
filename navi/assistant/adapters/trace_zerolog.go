package adapters

import (
	"context"
	"time"

	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"

	"github.com/rs/zerolog"
)

type spanLoggerKey struct{}

// ZerologTracer implements the Tracer port on top of zerolog. Provider
// attempt detail lands here, not in user-facing errors.
type ZerologTracer struct {
	logger zerolog.Logger
}

// NewZerologTracer creates a new zerolog tracer.
func NewZerologTracer(logger zerolog.Logger) *ZerologTracer {
	return &ZerologTracer{logger: logger}
}

// StartSpan opens a span and returns the finish function that logs its
// outcome and duration.
func (t *ZerologTracer) StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error)) {
	spanLogger := t.logger.With().Str("span", name).Logger()
	for k, v := range attrs {
		spanLogger = spanLogger.With().Interface(k, v).Logger()
	}

	ctx = context.WithValue(ctx, spanLoggerKey{}, spanLogger)
	start := time.Now()
	spanLogger.Debug().Msg("span start")

	finish := func(err error) {
		event := spanLogger.Debug()
		if err != nil {
			event = spanLogger.Warn().Err(err)
		}
		event.Dur("duration", time.Since(start)).Msg("span end")
	}
	return ctx, finish
}

// Event logs one tracing event against the surrounding span, if any.
func (t *ZerologTracer) Event(ctx context.Context, name string, attrs map[string]any) {
	logger := t.logger
	if spanLogger, ok := ctx.Value(spanLoggerKey{}).(zerolog.Logger); ok {
		logger = spanLogger
	}

	event := logger.Info()
	for k, v := range attrs {
		event = event.Interface(k, v)
	}
	event.Str("event", name).Msg("trace event")
}

// NopTracer discards everything. Tests and wiring without observability use it.
type NopTracer struct{}

func (NopTracer) StartSpan(ctx context.Context, _ string, _ map[string]any) (context.Context, func(err error)) {
	return ctx, func(error) {}
}

func (NopTracer) Event(context.Context, string, map[string]any) {}

var (
	_ ports.Tracer = (*ZerologTracer)(nil)
	_ ports.Tracer = NopTracer{}
)
