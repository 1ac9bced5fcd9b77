package assistant

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"
)

func TestAsk_ReturnsReplyText(t *testing.T) {
	var seenPrompt string
	p := &stubProvider{
		id:         ports.ProviderGemini,
		configured: true,
		invokeFunc: func(_ context.Context, prompt string) (string, error) {
			seenPrompt = prompt
			return "¡Hola! ¿En qué te ayudo?", nil
		},
	}
	a := NewCustomerAssistant(newTestOrchestrator(p), 10, zerolog.Nop())

	reply, err := a.Ask(context.Background(),
		[]Message{{Role: RoleUser, Content: "Hola"}},
		&ContactContext{},
	)

	require.NoError(t, err)
	assert.Equal(t, "¡Hola! ¿En qué te ayudo?", reply)
	assert.Contains(t, seenPrompt, "Cliente: Hola")
	assert.Contains(t, seenPrompt, "sin datos aún")
}

func TestAsk_FailureMapsToSingleStableError(t *testing.T) {
	p := failing(ports.ProviderGemini, "HTTP 500 - upstream exploded with secret details")
	a := NewCustomerAssistant(newTestOrchestrator(p), 10, zerolog.Nop())

	_, err := a.Ask(context.Background(), []Message{{Role: RoleUser, Content: "Hola"}}, nil)

	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, UnavailableMessage, err.Error())
	assert.NotContains(t, err.Error(), "500", "backend detail must never leak to UI code")
}

func TestAsk_NoProviderConfiguredMapsToSameError(t *testing.T) {
	a := NewStaffAssistant(newTestOrchestrator(unconfigured(ports.ProviderGemini)), 10, zerolog.Nop())

	_, err := a.Ask(context.Background(), []Message{{Role: RoleUser, Content: "Hola"}}, nil)

	require.ErrorIs(t, err, ErrUnavailable)
}

func TestAsk_CustomOrderIsHonored(t *testing.T) {
	gemini := succeeding(ports.ProviderGemini, "desde gemini")
	groq := succeeding(ports.ProviderGroq, "desde groq")
	orch := newTestOrchestrator(gemini, groq)

	a := NewStaffAssistant(orch, 10, zerolog.Nop(), ports.ProviderGroq, ports.ProviderGemini)

	reply, err := a.Ask(context.Background(), []Message{{Role: RoleUser, Content: "Hola"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, "desde groq", reply)
	assert.Equal(t, int32(0), gemini.calls.Load())
}
