package leads

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecnofusion-it/navi/navi/assistant"
)

func TestRegistrationComplete(t *testing.T) {
	assert.True(t, RegistrationComplete("Perfecto, quedaste registrado. REGISTRO_COMPLETO"))
	assert.False(t, RegistrationComplete("Necesito tu email para continuar."))
	assert.False(t, RegistrationComplete(""))
}

func TestExportAsync_PostsLeadPayload(t *testing.T) {
	var got Lead
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	exporter := NewExporter(server.URL, 5*time.Second, zerolog.Nop())
	appointment := time.Date(2025, 7, 10, 10, 0, 0, 0, time.UTC)
	exporter.ExportAsync("conv-1", assistant.ContactContext{
		Name:        "Ana Perez",
		Email:       "ana@example.com",
		Phone:       "+54 11 5555 5555",
		Appointment: &appointment,
	})
	exporter.Close()

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "conv-1", got.ConversationID)
	assert.Equal(t, "Ana Perez", got.Name)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, "+54 11 5555 5555", got.Phone)
	require.NotNil(t, got.Appointment)
	assert.True(t, got.Appointment.Equal(appointment))
	assert.Equal(t, "Tecnofusion Web", got.Source)
	assert.False(t, got.CapturedAt.IsZero())
}

func TestExportAsync_CloseWaitsForInflightExports(t *testing.T) {
	release := make(chan struct{})
	var served atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		served.Add(1)
	}))
	defer server.Close()

	exporter := NewExporter(server.URL, 5*time.Second, zerolog.Nop())
	exporter.ExportAsync("conv-1", assistant.ContactContext{Name: "Ana"})

	close(release)
	exporter.Close()

	assert.Equal(t, int32(1), served.Load())
}

func TestExportAsync_EmptyWebhookIsANoOp(t *testing.T) {
	exporter := NewExporter("", time.Second, zerolog.Nop())
	exporter.ExportAsync("conv-1", assistant.ContactContext{Name: "Ana"})
	exporter.Close()
}

func TestExportAsync_WebhookFailureDoesNotPanic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	exporter := NewExporter(server.URL, time.Second, zerolog.Nop())
	exporter.ExportAsync("conv-1", assistant.ContactContext{Name: "Ana"})
	exporter.Close()
}
