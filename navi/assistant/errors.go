package assistant

import (
	"fmt"
	"strings"

	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"
)

// ConfigurationError means no provider in the requested order is configured.
// It fails fast, before any network attempt.
type ConfigurationError struct {
	// Missing lists the providers whose credentials were absent.
	Missing []ports.ProviderID
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) == 0 {
		return "no known text-generation provider in the requested order"
	}
	names := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		names[i] = string(id)
	}
	return fmt.Sprintf("no text-generation provider configured: missing credentials for %s",
		strings.Join(names, ", "))
}

// AttemptFailure records one provider's failed attempt inside a fallback run.
type AttemptFailure struct {
	Provider ports.ProviderID
	Detail   string
}

// ExhaustedError means every configured provider in the order failed. It
// aggregates the per-provider detail for diagnostics; callers above the
// façade never expose it to end users.
type ExhaustedError struct {
	Failures []AttemptFailure
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %s", f.Provider, f.Detail)
	}
	return fmt.Sprintf("all %d configured providers failed: %s",
		len(e.Failures), strings.Join(parts, "; "))
}
