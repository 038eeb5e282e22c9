package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
	"github.com/yaswanthpuritipati/inboXpert/internal/core"
	"github.com/yaswanthpuritipati/inboXpert/internal/llm"
	"github.com/yaswanthpuritipati/inboXpert/internal/store"
)

type stubGenerator struct {
	draft core.Draft
	err   error
	got   *core.DraftRequest
}

func (g *stubGenerator) Generate(_ context.Context, req core.DraftRequest) (core.Draft, error) {
	g.got = &req
	if g.err != nil {
		return core.Draft{}, g.err
	}
	return g.draft, nil
}

func testServer(t *testing.T, gen DraftGenerator, withStore bool) (*Server, *store.Store) {
	t.Helper()
	cfg := &config.Config{
		LLM:    config.LLM{Provider: "openai"},
		Server: config.Server{Host: "localhost", Port: 0},
	}
	var st *store.Store
	if withStore {
		var err error
		st, err = store.NewStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewStore failed: %v", err)
		}
		t.Cleanup(func() { _ = st.Close() })
	}
	return New(cfg, gen, st), st
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t, &stubGenerator{}, false)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["provider"] != "openai" {
		t.Errorf("unexpected payload: %+v", resp)
	}
}

func TestGenerateDraftEndpoint(t *testing.T) {
	gen := &stubGenerator{draft: core.Draft{
		ID: "d1", Subject: "Hi", Body: "Body", DateGenerated: time.Now().UTC(),
	}}
	srv, st := testServer(t, gen, true)

	body := bytes.NewBufferString(`{"prompt":"say hi","tone":"casual","length":"short"}`)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate/draft", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gen.got == nil || gen.got.Prompt != "say hi" || gen.got.Tone != "casual" {
		t.Errorf("request not passed through: %+v", gen.got)
	}
	var draft core.Draft
	if err := json.Unmarshal(rec.Body.Bytes(), &draft); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if draft.ID != "d1" {
		t.Errorf("draft = %+v", draft)
	}

	// The draft must also have been persisted.
	saved, err := st.GetDraft("d1")
	if err != nil || saved == nil {
		t.Errorf("draft not persisted: %v, %v", saved, err)
	}
}

func TestGenerateDraftValidation(t *testing.T) {
	srv, _ := testServer(t, &stubGenerator{}, false)

	tests := []struct {
		name string
		body string
	}{
		{"empty prompt", `{"prompt":"  "}`},
		{"malformed JSON", `{"prompt":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate/draft", bytes.NewBufferString(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestGenerateDraftErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"rate limit exhaustion", &llm.TransportExhausted{Class: llm.FailureRateLimit, Attempts: 2}, http.StatusBadGateway},
		{"timeout exhaustion", &llm.TransportExhausted{Class: llm.FailureTimeout, Attempts: 2}, http.StatusGatewayTimeout},
		{"provider rejection", &llm.ProviderError{Provider: "gemini", Status: 400}, http.StatusBadGateway},
		{"misconfiguration", &llm.ConfigError{Reason: "OPENAI_API_KEY not set"}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := testServer(t, &stubGenerator{err: tt.err}, false)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate/draft", bytes.NewBufferString(`{"prompt":"x"}`)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestGenerateSummaryExtractive(t *testing.T) {
	srv, _ := testServer(t, &stubGenerator{}, false)

	payload := `{"text":"The budget review is on Friday. Bring the revenue projections. The budget review covers projections. Cats are great.","sentences":2}`
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate/summary", bytes.NewBufferString(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Mode != "extractive" || resp.Summary == "" {
		t.Errorf("unexpected payload: %+v", resp)
	}
}

func TestGenerateSummaryRejectsBadMode(t *testing.T) {
	srv, _ := testServer(t, &stubGenerator{}, false)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate/summary", bytes.NewBufferString(`{"text":"hello world sentence.","mode":"telepathic"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListEmails(t *testing.T) {
	srv, st := testServer(t, &stubGenerator{}, true)

	if err := st.UpsertEmail(core.EmailRecord{ID: "e1", MessageID: "m1", Subject: "hello", Received: time.Now().UTC()}); err != nil {
		t.Fatalf("UpsertEmail failed: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/emails?limit=10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var emails []core.EmailRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &emails); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(emails) != 1 || emails[0].Subject != "hello" {
		t.Errorf("emails = %+v", emails)
	}
}

func TestListEmailsWithoutStore(t *testing.T) {
	srv, _ := testServer(t, &stubGenerator{}, false)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/emails", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestListEmailsBadLimit(t *testing.T) {
	srv, _ := testServer(t, &stubGenerator{}, true)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/emails?limit=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
