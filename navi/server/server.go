// Package server is the HTTP transport consumed by the site's chat widgets
// and the admin panel. It sits exactly at the orchestration boundary: it owns
// persistence, rate limiting, and the lead-export side effect, and hands the
// assistant façades nothing but messages.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tecnofusion-it/navi/navi/assistant"
	"github.com/tecnofusion-it/navi/navi/assistant/adapters"
	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"
	"github.com/tecnofusion-it/navi/navi/leads"
	"github.com/tecnofusion-it/navi/navi/readme"

	"github.com/rs/zerolog"
)

// Server wires the assistant façades to HTTP.
type Server struct {
	Customer *assistant.Assistant
	Staff    *assistant.Assistant
	Analyzer *readme.Analyzer
	Store    ports.ConversationStore
	Limiter  ports.RateLimiter
	Exporter *leads.Exporter
	Logger   zerolog.Logger
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":   true,
			"time": time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("POST /api/assistant/customer/ask", s.handleCustomerAsk)
	mux.HandleFunc("POST /api/assistant/staff/ask", s.handleStaffAsk)

	mux.HandleFunc("GET /api/conversations/{id}", s.handleConversationGet)
	mux.HandleFunc("POST /api/conversations/{id}/reset", s.handleConversationReset)

	mux.HandleFunc("POST /api/readme/analyze", s.handleReadmeAnalyze)

	return mux
}

type askRequest struct {
	ConversationID string                    `json:"conversation_id"`
	Messages       []assistant.Message       `json:"messages"`
	Contact        *assistant.ContactContext `json:"contact,omitempty"`
}

type askResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleCustomerAsk(w http.ResponseWriter, r *http.Request) {
	s.handleAsk(w, r, s.Customer, true)
}

func (s *Server) handleStaffAsk(w http.ResponseWriter, r *http.Request) {
	s.handleAsk(w, r, s.Staff, false)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request, a *assistant.Assistant, customer bool) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConversationID == "" || len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "conversation_id and messages are required")
		return
	}

	release, err := s.Limiter.Acquire(r.Context(), req.ConversationID)
	if err != nil {
		var rateErr *adapters.RateLimitError
		if errors.As(err, &rateErr) {
			writeError(w, http.StatusTooManyRequests, "demasiadas solicitudes, espera un momento")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer release()

	contact := req.Contact
	if !customer {
		// The staff variant never carries contact context.
		contact = nil
	}

	reply, err := a.Ask(r.Context(), req.Messages, contact)
	if err != nil {
		// The façade already collapsed the failure into its one stable,
		// user-facing message.
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	s.persistExchange(r, req, reply)

	if customer && req.Contact != nil && leads.RegistrationComplete(reply) {
		s.Exporter.ExportAsync(req.ConversationID, *req.Contact)
	}

	writeJSON(w, http.StatusOK, askResponse{Reply: reply})
}

// persistExchange appends the latest user utterance and the reply. Best
// effort: a storage hiccup must not fail a chat turn that already succeeded.
func (s *Server) persistExchange(r *http.Request, req askRequest, reply string) {
	if s.Store == nil {
		return
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role == assistant.RoleUser {
		if err := s.Store.AppendTurn(r.Context(), req.ConversationID, ports.Turn{
			Role:    string(last.Role),
			Content: last.Content,
		}); err != nil {
			s.Logger.Warn().Err(err).Msg("failed to persist user turn")
		}
	}
	if err := s.Store.AppendTurn(r.Context(), req.ConversationID, ports.Turn{
		Role:    string(assistant.RoleAssistant),
		Content: reply,
	}); err != nil {
		s.Logger.Warn().Err(err).Msg("failed to persist assistant turn")
	}
}

func (s *Server) handleConversationGet(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, http.StatusNotFound, "conversation store disabled")
		return
	}
	turns, err := s.Store.LoadRecent(r.Context(), r.PathValue("id"), 0)
	if err != nil {
		s.Logger.Error().Err(err).Msg("failed to load conversation")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

func (s *Server) handleConversationReset(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, http.StatusNotFound, "conversation store disabled")
		return
	}
	if err := s.Store.Reset(r.Context(), r.PathValue("id")); err != nil {
		s.Logger.Error().Err(err).Msg("failed to reset conversation")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type analyzeRequest struct {
	Readme string `json:"readme"`
}

func (s *Server) handleReadmeAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	info, err := s.Analyzer.Analyze(r.Context(), req.Readme)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("readme analysis failed")
		writeError(w, http.StatusUnprocessableEntity, "no se pudo analizar el README")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
