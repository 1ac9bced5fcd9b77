package assistantports

import "context"

// Tracer emits spans/events for observability. Per-provider failure detail is
// traced here and never shown to end users.
type Tracer interface {
	StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error))
	Event(ctx context.Context, name string, attrs map[string]any)
}
