package draft

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
	"github.com/yaswanthpuritipati/inboXpert/internal/core"
	"github.com/yaswanthpuritipati/inboXpert/internal/llm"
	"github.com/yaswanthpuritipati/inboXpert/internal/logger"
)

// Service generates email drafts through a configured provider.
type Service struct {
	cfg      *config.Config
	provider llm.Provider
	composer *Composer
	now      func() time.Time
}

// NewService builds a Service, constructing the provider from configuration.
func NewService(cfg *config.Config) (*Service, error) {
	provider, err := llm.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewServiceWithProvider(cfg, provider), nil
}

// NewServiceWithProvider builds a Service around an existing provider.
func NewServiceWithProvider(cfg *config.Config, provider llm.Provider) *Service {
	return &Service{
		cfg:      cfg,
		provider: provider,
		composer: NewComposer(cfg.Classify),
		now:      time.Now,
	}
}

// Generate produces one draft for the request. The provider is asked for
// structured JSON up to the configured attempt cap; whatever text comes
// back is recovered heuristically if the model never complies, so a
// reachable provider always yields a usable draft.
func (s *Service) Generate(ctx context.Context, req core.DraftRequest) (core.Draft, error) {
	conv, intent := s.composer.Compose(req)

	model := req.Model
	if model == "" {
		model = llm.DefaultModel(s.cfg)
	}

	maxTokens := s.cfg.LLM.MaxTokens
	if llm.UsesReasoningTokens(s.cfg) {
		// Reasoning models spend part of the budget on hidden thinking
		// tokens before any visible output; double the ceiling so short
		// drafts are not starved.
		maxTokens *= 2
	}
	opts := llm.Options{
		Model:       model,
		Temperature: s.cfg.LLM.Temperature,
		MaxTokens:   maxTokens,
	}

	parsed, raw, err := coerce(ctx, s.provider, conv, opts, s.cfg.LLM.MaxAttempts)
	if err != nil {
		return core.Draft{}, err
	}
	if parsed == nil {
		logger.Warn("model never returned structured JSON, using heuristic parse",
			"provider", s.provider.Name(), "model", model)
		p := fallbackParse(raw)
		parsed = &p
	}

	body := postProcess(parsed.Body, EnhancePrompt(req.Prompt), s.now())

	lang := strings.TrimSpace(req.TargetLang)
	if lang == "" {
		lang = "en"
	}

	return core.Draft{
		ID:            uuid.NewString(),
		Subject:       strings.TrimSpace(parsed.Subject),
		Body:          body,
		Intent:        intent,
		Language:      lang,
		Raw:           raw,
		ModelUsed:     model,
		DateGenerated: s.now().UTC(),
	}, nil
}
