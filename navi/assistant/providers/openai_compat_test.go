package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc, headers map[string]string) ports.Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOpenAICompat(ports.ProviderGroq, server.URL, RESTConfig{
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.4,
	}, headers)
}

func TestInvoke_Success(t *testing.T) {
	var gotBody chatRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  Hola desde el backend  "}}]}`))
	}, nil)

	text, err := p.Invoke(context.Background(), "pregunta")

	require.NoError(t, err)
	assert.Equal(t, "Hola desde el backend", text)
	assert.Equal(t, "test-model", gotBody.Model)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
	assert.Equal(t, "pregunta", gotBody.Messages[0].Content)
	assert.InDelta(t, 0.4, gotBody.Temperature, 0.001)
}

func TestInvoke_FragmentArrayContent(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":[{"text":"Hola "},{"text":"mundo"}]}}]}`))
	}, nil)

	text, err := p.Invoke(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, "Hola mundo", text)
}

func TestInvoke_EmptyFragmentsFail(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":[{"text":""},{"text":"  "}]}}]}`))
	}, nil)

	_, err := p.Invoke(context.Background(), "x")

	require.ErrorIs(t, err, ErrEmptyResponse, "whitespace-only content is a failure, not a blank success")
}

func TestInvoke_NoChoicesFail(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}, nil)

	_, err := p.Invoke(context.Background(), "x")
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestInvoke_NonSuccessStatusSurfacesDetail(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}, nil)

	_, err := p.Invoke(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestInvoke_ExtraHeadersSent(t *testing.T) {
	var referer, title string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("HTTP-Referer")
		title = r.Header.Get("X-Title")
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}, map[string]string{"HTTP-Referer": "https://tecnofusion.it", "X-Title": "Tecnofusion"})

	_, err := p.Invoke(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, "https://tecnofusion.it", referer)
	assert.Equal(t, "Tecnofusion", title)
}

func TestInvoke_MissingKeyFailsWithoutNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(server.Close)

	p := NewOpenAICompat(ports.ProviderGroq, server.URL, RESTConfig{APIKey: ""}, nil)
	assert.False(t, p.Configured())

	_, err := p.Invoke(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key not configured")
	assert.False(t, called)
}

func TestErrorDetail_PreferenceOrder(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"error as string", `{"error":"quota exceeded"}`, "quota exceeded"},
		{"structured error message", `{"error":{"message":"model not found"}}`, "model not found"},
		{"top-level message", `{"message":"try later"}`, "try later"},
		{"unstructured body", `gateway timeout`, "gateway timeout"},
		{"empty body falls back to status", ``, "503 Service Unavailable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errorDetail([]byte(tc.body), "503 Service Unavailable"))
		})
	}
}
