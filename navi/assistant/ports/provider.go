package assistantports

import (
	"context"
)

// ProviderID identifies one of the known text-generation backends. The set is
// closed: resolving a fallback order against the registry can only ever yield
// these values, so an unknown provider name is dropped at the edge instead of
// leaking into the orchestration loop.
type ProviderID string

const (
	ProviderGemini     ProviderID = "gemini"
	ProviderOpenRouter ProviderID = "openrouter"
	ProviderGroq       ProviderID = "groq"
)

// AllProviderIDs returns every known provider identifier in default
// preference order.
func AllProviderIDs() []ProviderID {
	return []ProviderID{ProviderGemini, ProviderOpenRouter, ProviderGroq}
}

// ParseProviderID maps a configured name to a known identifier.
func ParseProviderID(name string) (ProviderID, bool) {
	switch ProviderID(name) {
	case ProviderGemini, ProviderOpenRouter, ProviderGroq:
		return ProviderID(name), true
	}
	return "", false
}

// Provider is the abstraction for one remote text-generation backend.
// Invoke submits a single prompt and returns the normalized non-empty reply
// text; any transport failure, non-success status, malformed payload, or
// empty normalized reply is an error. Implementations must not mutate shared
// state, so one Provider value is safe for concurrent calls.
type Provider interface {
	ID() ProviderID
	// Configured reports whether the backend credential was present at
	// startup. It never changes during the process lifetime.
	Configured() bool
	Invoke(ctx context.Context, prompt string) (string, error)
}
