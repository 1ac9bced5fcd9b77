package assistant

import (
	"context"
	"time"

	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"
)

// DefaultOrder is the provider preference used when a caller does not supply
// its own: cheapest/highest-quality first. Callers and tests may override it
// per call.
var DefaultOrder = []ports.ProviderID{
	ports.ProviderGemini,
	ports.ProviderOpenRouter,
	ports.ProviderGroq,
}

// Result is a successful fallback outcome. Provider identifies which backend
// answered; it is diagnostics-only and never shown in the UI.
type Result struct {
	Text     string
	Provider ports.ProviderID
}

// Orchestrator tries providers strictly in order until one yields a usable
// answer. Attempts are sequential on purpose: racing paid backends would
// multiply request volume for every single turn.
type Orchestrator struct {
	registry       *Registry
	tracer         ports.Tracer
	attemptTimeout time.Duration
}

// NewOrchestrator wires the fallback loop. attemptTimeout bounds each
// provider call so a hung backend cannot block the whole chain; zero disables
// the per-attempt bound.
func NewOrchestrator(registry *Registry, tracer ports.Tracer, attemptTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		registry:       registry,
		tracer:         tracer,
		attemptTimeout: attemptTimeout,
	}
}

// GenerateText resolves order against the registry, dropping unknown names,
// duplicates, and unconfigured providers, then invokes the queue in order.
// The first success short-circuits. If nothing is configured it fails with
// *ConfigurationError before any network I/O; if the queue is exhausted it
// fails with *ExhaustedError carrying every per-provider detail.
func (o *Orchestrator) GenerateText(ctx context.Context, prompt string, order []ports.ProviderID) (Result, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}

	queue, missing := o.resolve(order)
	if len(queue) == 0 {
		return Result{}, &ConfigurationError{Missing: missing}
	}

	ctx, finish := o.tracer.StartSpan(ctx, "generate_text", map[string]any{
		"queue_len": len(queue),
	})

	var failures []AttemptFailure
	for _, provider := range queue {
		if err := ctx.Err(); err != nil {
			// Caller canceled mid-chain; stop attempting providers.
			failures = append(failures, AttemptFailure{Provider: provider.ID(), Detail: err.Error()})
			break
		}

		text, err := o.attempt(ctx, provider, prompt)
		if err == nil {
			o.tracer.Event(ctx, "provider_success", map[string]any{
				"provider": string(provider.ID()),
			})
			finish(nil)
			return Result{Text: text, Provider: provider.ID()}, nil
		}

		failures = append(failures, AttemptFailure{Provider: provider.ID(), Detail: err.Error()})
		o.tracer.Event(ctx, "provider_failure", map[string]any{
			"provider": string(provider.ID()),
			"detail":   err.Error(),
		})
	}

	exhausted := &ExhaustedError{Failures: failures}
	finish(exhausted)
	return Result{}, exhausted
}

// attempt runs one provider call under the per-attempt timeout.
func (o *Orchestrator) attempt(ctx context.Context, provider ports.Provider, prompt string) (string, error) {
	if o.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.attemptTimeout)
		defer cancel()
	}
	return provider.Invoke(ctx, prompt)
}

// resolve maps the requested order to the attempt queue. Unknown names and
// repeats are dropped; unconfigured providers are skipped and reported so a
// fully-empty queue can name the missing credentials.
func (o *Orchestrator) resolve(order []ports.ProviderID) ([]ports.Provider, []ports.ProviderID) {
	seen := make(map[ports.ProviderID]bool, len(order))
	var queue []ports.Provider
	var missing []ports.ProviderID

	for _, id := range order {
		if seen[id] {
			continue
		}
		seen[id] = true

		provider, ok := o.registry.Lookup(id)
		if !ok {
			continue
		}
		if !provider.Configured() {
			missing = append(missing, id)
			continue
		}
		queue = append(queue, provider)
	}
	return queue, missing
}
