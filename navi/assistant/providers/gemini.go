package providers

import (
	"context"
	"fmt"
	"strings"

	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"

	"google.golang.org/genai"
)

// geminiProvider is the SDK-mediated backend: prompt submission is delegated
// to the official Gemini client library instead of a hand-rolled HTTP call.
type geminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGemini creates the Gemini adapter. A missing API key yields an
// unconfigured provider; the fallback orchestrator will skip it without
// touching the network.
func NewGemini(ctx context.Context, apiKey, model string, temperature float32) (ports.Provider, error) {
	p := &geminiProvider{model: model, temperature: temperature}
	if apiKey == "" {
		return p, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	p.client = client
	return p, nil
}

func (p *geminiProvider) ID() ports.ProviderID { return ports.ProviderGemini }

func (p *geminiProvider) Configured() bool { return p.client != nil }

func (p *geminiProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("%s: api key not configured", ports.ProviderGemini)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", ports.ProviderGemini, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%s: %w", ports.ProviderGemini, ErrEmptyResponse)
	}
	return text, nil
}
