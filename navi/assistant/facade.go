package assistant

import (
	"context"
	"errors"

	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"

	"github.com/rs/zerolog"
)

// UnavailableMessage is the single stable, localized error text UI code may
// show. It deliberately carries no backend detail.
const UnavailableMessage = "No pude responder ahora. Intenta nuevamente en unos segundos."

// ErrUnavailable is the only error an Assistant surfaces to callers. Raw
// provider failures stay in the logs.
var ErrUnavailable = errors.New(UnavailableMessage)

// Assistant is the public entry point a chat widget calls. It wires a prompt
// composer to the fallback orchestrator and collapses every orchestration
// failure into ErrUnavailable.
type Assistant struct {
	composer *Composer
	orch     *Orchestrator
	order    []ports.ProviderID
	logger   zerolog.Logger
}

// NewCustomerAssistant builds the public-facing lead-qualifier variant.
// order overrides the default provider preference when non-empty.
func NewCustomerAssistant(orch *Orchestrator, window int, logger zerolog.Logger, order ...ports.ProviderID) *Assistant {
	return newAssistant("customer", CustomerPersona, orch, window, logger, order)
}

// NewStaffAssistant builds the internal helper variant. The staff widget
// never supplies contact context.
func NewStaffAssistant(orch *Orchestrator, window int, logger zerolog.Logger, order ...ports.ProviderID) *Assistant {
	return newAssistant("staff", StaffPersona, orch, window, logger, order)
}

func newAssistant(variant string, persona Persona, orch *Orchestrator, window int, logger zerolog.Logger, order []ports.ProviderID) *Assistant {
	if len(order) == 0 {
		order = DefaultOrder
	}
	return &Assistant{
		composer: NewComposer(persona, window),
		orch:     orch,
		order:    order,
		logger:   logger.With().Str("assistant", variant).Logger(),
	}
}

// Ask produces the next assistant reply for the given conversation. contact
// is optional and customer-only. On any orchestration failure the returned
// error is ErrUnavailable; per-provider detail is logged, never returned.
func (a *Assistant) Ask(ctx context.Context, messages []Message, contact *ContactContext) (string, error) {
	prompt := a.composer.Compose(messages, contact)

	result, err := a.orch.GenerateText(ctx, prompt, a.order)
	if err != nil {
		var confErr *ConfigurationError
		var exhausted *ExhaustedError
		switch {
		case errors.As(err, &confErr):
			a.logger.Error().Err(err).Msg("assistant has no configured provider")
		case errors.As(err, &exhausted):
			a.logger.Warn().Int("attempts", len(exhausted.Failures)).Err(err).Msg("all providers failed")
		default:
			a.logger.Error().Err(err).Msg("unexpected orchestration failure")
		}
		return "", ErrUnavailable
	}

	a.logger.Debug().Str("provider", string(result.Provider)).Msg("assistant reply generated")
	return result.Text, nil
}
