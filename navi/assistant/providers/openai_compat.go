package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"
)

const (
	openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	groqEndpoint       = "https://api.groq.com/openai/v1/chat/completions"
)

// openAICompatProvider calls one chat-completions backend that speaks the
// OpenAI wire schema. OpenRouter and Groq share this implementation; they
// differ only in endpoint, credential, model, and extra headers.
type openAICompatProvider struct {
	id          ports.ProviderID
	endpoint    string
	apiKey      string
	model       string
	temperature float32
	headers     map[string]string
	httpClient  *http.Client
}

// RESTConfig carries the knobs shared by the OpenAI-compatible backends.
type RESTConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	HTTPClient  *http.Client
}

// NewOpenRouter creates the OpenRouter adapter. SiteURL and appName become
// the HTTP-Referer and X-Title attribution headers; they are cosmetic and do
// not affect behavior.
func NewOpenRouter(cfg RESTConfig, siteURL, appName string) ports.Provider {
	headers := map[string]string{}
	if siteURL != "" {
		headers["HTTP-Referer"] = siteURL
	}
	if appName != "" {
		headers["X-Title"] = appName
	}
	return newOpenAICompat(ports.ProviderOpenRouter, openRouterEndpoint, cfg, headers)
}

// NewGroq creates the Groq adapter.
func NewGroq(cfg RESTConfig) ports.Provider {
	return newOpenAICompat(ports.ProviderGroq, groqEndpoint, cfg, nil)
}

// NewOpenAICompat creates an adapter for an arbitrary chat-completions
// endpoint. Tests use this to point a provider at a local server.
func NewOpenAICompat(id ports.ProviderID, endpoint string, cfg RESTConfig, headers map[string]string) ports.Provider {
	return newOpenAICompat(id, endpoint, cfg, headers)
}

func newOpenAICompat(id ports.ProviderID, endpoint string, cfg RESTConfig, headers map[string]string) *openAICompatProvider {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &openAICompatProvider{
		id:          id,
		endpoint:    endpoint,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		headers:     headers,
		httpClient:  client,
	}
}

func (p *openAICompatProvider) ID() ports.ProviderID { return p.id }

func (p *openAICompatProvider) Configured() bool { return p.apiKey != "" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Invoke submits the prompt as a single user message and returns the
// normalized reply text.
func (p *openAICompatProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("%s: api key not configured", p.id)
	}

	payload, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", p.id, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create %s request: %w", p.id, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", p.id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", p.id, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s: HTTP %d - %s", p.id, resp.StatusCode, errorDetail(body, resp.Status))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse %s response: %s", p.id, truncate(string(body), 400))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", p.id, ErrEmptyResponse)
	}

	text := normalizeRaw(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%s: %w", p.id, ErrEmptyResponse)
	}
	return text, nil
}

// errorExtractor is one best-effort strategy for pulling a human-readable
// message out of a failed response body.
type errorExtractor func(body []byte) (string, bool)

// errorExtractors are applied in preference order: structured error message
// first, then any top-level message, then the raw body text. The HTTP status
// line is the caller's last resort.
var errorExtractors = []errorExtractor{
	extractErrorString,
	extractErrorMessage,
	extractTopLevelMessage,
	extractRawBody,
}

// errorDetail picks the most actionable failure detail available so the
// aggregated fallback log stays useful for diagnostics.
func errorDetail(body []byte, status string) string {
	for _, extract := range errorExtractors {
		if detail, ok := extract(body); ok {
			return detail
		}
	}
	return status
}

func extractErrorString(body []byte) (string, bool) {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error, true
	}
	return "", false
}

func extractErrorMessage(body []byte) (string, bool) {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message, true
	}
	return "", false
}

func extractTopLevelMessage(body []byte) (string, bool) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message, true
	}
	return "", false
}

func extractRawBody(body []byte) (string, bool) {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", false
	}
	return truncate(text, 400), true
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
