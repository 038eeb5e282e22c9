// Package server exposes draft generation, summarization, and the synced
// inbox over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
	"github.com/yaswanthpuritipati/inboXpert/internal/core"
	"github.com/yaswanthpuritipati/inboXpert/internal/logger"
	"github.com/yaswanthpuritipati/inboXpert/internal/store"
)

// DraftGenerator produces an email draft for a request.
type DraftGenerator interface {
	Generate(ctx context.Context, req core.DraftRequest) (core.Draft, error)
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	drafts     DraftGenerator
	store      *store.Store
	cfg        *config.Config
	log        *slog.Logger
}

// New creates a new HTTP server instance. The store may be nil when the
// deployment has no local mailbox; the email routes then report 503.
func New(cfg *config.Config, drafts DraftGenerator, st *store.Store) *Server {
	s := &Server{
		router: chi.NewRouter(),
		drafts: drafts,
		store:  st,
		cfg:    cfg,
		log:    logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  parseDuration(cfg.Server.ReadTimeout, 30*time.Second),
		WriteTimeout: parseDuration(cfg.Server.WriteTimeout, 120*time.Second),
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Draft generation can sit on a slow upstream model for a while.
	s.router.Use(middleware.Timeout(120 * time.Second))

	if len(s.cfg.Server.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Server.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/generate/draft", s.handleGenerateDraft)
	s.router.Post("/generate/summary", s.handleGenerateSummary)
	s.router.Get("/emails", s.handleListEmails)
}

// Start begins serving and blocks until the listener fails or Shutdown
// is called.
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the route tree, primarily for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logger.Warn("invalid duration in server config, using default", "value", raw)
		return fallback
	}
	return d
}
