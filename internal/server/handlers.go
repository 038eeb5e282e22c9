package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/yaswanthpuritipati/inboXpert/internal/core"
	"github.com/yaswanthpuritipati/inboXpert/internal/llm"
	"github.com/yaswanthpuritipati/inboXpert/internal/summarize"
)

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

type summaryRequest struct {
	Text      string `json:"text"`
	Mode      string `json:"mode,omitempty"`      // extractive (default) or abstractive
	Sentences int    `json:"sentences,omitempty"` // extractive only
}

type summaryResponse struct {
	Summary string `json:"summary"`
	Mode    string `json:"mode"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"provider": s.cfg.LLM.Provider,
	}
	if s.store != nil {
		checks["store"] = "ok"
	}
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Checks: checks})
}

func (s *Server) handleGenerateDraft(w http.ResponseWriter, r *http.Request) {
	var req core.DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		s.respondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	draft, err := s.drafts.Generate(r.Context(), req)
	if err != nil {
		s.log.Error("draft generation failed", "error", err)
		s.respondError(w, draftErrorStatus(err), err.Error())
		return
	}

	if s.store != nil {
		if err := s.store.SaveDraft(draft); err != nil {
			// The caller still gets their draft; persistence is best effort.
			s.log.Warn("failed to persist draft", "draft_id", draft.ID, "error", err.Error())
		}
	}

	s.respondJSON(w, http.StatusOK, draft)
}

func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = "extractive"
	}
	switch mode {
	case "extractive":
		s.respondJSON(w, http.StatusOK, summaryResponse{
			Summary: summarize.Extract(req.Text, req.Sentences),
			Mode:    mode,
		})
	case "abstractive":
		summary, err := summarize.Abstractive(r.Context(), s.cfg, req.Text)
		if err != nil {
			s.log.Error("abstractive summarization failed", "error", err)
			s.respondError(w, http.StatusBadGateway, err.Error())
			return
		}
		s.respondJSON(w, http.StatusOK, summaryResponse{Summary: summary, Mode: mode})
	default:
		s.respondError(w, http.StatusBadRequest, "mode must be extractive or abstractive")
	}
}

func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, http.StatusServiceUnavailable, "no local mailbox configured")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	spamOnly := r.URL.Query().Get("spam") == "true"

	emails, err := s.store.ListEmails(limit, spamOnly)
	if err != nil {
		s.log.Error("failed to list emails", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list emails")
		return
	}
	if emails == nil {
		emails = []core.EmailRecord{}
	}
	s.respondJSON(w, http.StatusOK, emails)
}

// draftErrorStatus maps pipeline failures onto HTTP statuses: caller
// mistakes and misconfiguration are 4xx-ish, upstream trouble is 502/504.
func draftErrorStatus(err error) int {
	var cfgErr *llm.ConfigError
	if errors.As(err, &cfgErr) {
		return http.StatusInternalServerError
	}
	var exhausted *llm.TransportExhausted
	if errors.As(err, &exhausted) {
		if exhausted.Class == llm.FailureTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Failed to encode JSON response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, ErrorResponse{Error: msg})
}
