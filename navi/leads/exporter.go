// Package leads exports collected contact data to the company's spreadsheet
// webhook. The export is fire-and-forget: it is triggered after a reply is
// already on its way to the user and never affects the ask contract.
package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tecnofusion-it/navi/navi/assistant"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
)

// RegistrationMark is the signal the customer persona embeds in a reply once
// name, email, and phone are confirmed.
const RegistrationMark = "REGISTRO_COMPLETO"

// Lead is the payload posted to the webhook.
type Lead struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	Name           string     `json:"name,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Appointment    *time.Time `json:"appointment,omitempty"`
	CapturedAt     time.Time  `json:"captured_at"`
	Source         string     `json:"source"`
}

// Exporter posts leads to the configured webhook in the background.
type Exporter struct {
	webhookURL string
	client     *http.Client
	wg         conc.WaitGroup
	logger     zerolog.Logger
}

// NewExporter creates an exporter. An empty webhookURL disables exporting;
// ExportAsync becomes a logged no-op.
func NewExporter(webhookURL string, timeout time.Duration, logger zerolog.Logger) *Exporter {
	return &Exporter{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "lead_exporter").Logger(),
	}
}

// RegistrationComplete reports whether a reply carries the registration mark.
func RegistrationComplete(reply string) bool {
	return strings.Contains(reply, RegistrationMark)
}

// ExportAsync posts the contact data without blocking the caller. Failures
// are logged only; the chat flow already succeeded from the user's view.
func (e *Exporter) ExportAsync(conversationID string, contact assistant.ContactContext) {
	if e.webhookURL == "" {
		e.logger.Debug().Msg("lead webhook not configured, skipping export")
		return
	}

	lead := Lead{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Name:           contact.Name,
		Email:          contact.Email,
		Phone:          contact.Phone,
		Appointment:    contact.Appointment,
		CapturedAt:     time.Now().UTC(),
		Source:         "Tecnofusion Web",
	}

	e.wg.Go(func() {
		if err := e.post(lead); err != nil {
			e.logger.Warn().Err(err).Str("lead_id", lead.ID).Msg("lead export failed")
			return
		}
		e.logger.Info().Str("lead_id", lead.ID).Msg("lead exported")
	})
}

// Close waits for in-flight exports. Call it on shutdown.
func (e *Exporter) Close() {
	e.wg.Wait()
}

func (e *Exporter) post(lead Lead) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, e.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
