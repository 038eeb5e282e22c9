// Package llm abstracts the interchangeable text-generation backends behind
// one capability interface. Every backend (hosted SDK, hosted HTTP, local
// daemon, in-process model) implements Provider; the drafting pipeline and
// the rest of the application never need to know which backend is actually
// handling a request.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
	"github.com/yaswanthpuritipati/inboXpert/internal/core"
)

// Options carries per-call generation parameters.
type Options struct {
	Model       string  // model identifier understood by the backend
	Temperature float64 // sampling temperature
	MaxTokens   int     // visible-output token ceiling
}

// Response is the raw outcome of one provider call. Text is opaque until
// parsed by the caller. Truncated reports a provider length-limit finish:
// partial text is preserved and surfaced rather than discarded.
type Response struct {
	Text      string
	Truncated bool
}

// Provider is the interface every text-generation backend must satisfy.
type Provider interface {
	// Name returns the provider identifier, e.g. "openai" or "ollama".
	Name() string

	// Chat sends the conversation and returns the generated text. The
	// context carries cancellation and deadlines for the upstream call.
	Chat(ctx context.Context, conv core.Conversation, opts Options) (Response, error)
}

// New selects a Provider from configuration. Selection is a pure function
// of the configured provider identifier; an unknown hosted provider name
// degrades to the plain HTTP adapter.
func New(cfg *config.Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLM.Provider)) {
	case "openai":
		return newOpenAIProvider(cfg.LLM.OpenAI)
	case "gemini":
		return newGeminiProvider(cfg.LLM.Gemini)
	case "ollama":
		return newOllamaProvider(cfg.LLM.Ollama)
	case "local":
		return newLocalProvider(cfg.LLM.Local)
	default:
		return newOpenAIHTTPProvider(cfg.LLM.OpenAI)
	}
}

// DefaultModel returns the configured default model for the selected
// provider, mirroring the factory's selection rules.
func DefaultModel(cfg *config.Config) string {
	switch strings.ToLower(strings.TrimSpace(cfg.LLM.Provider)) {
	case "gemini":
		return cfg.LLM.Gemini.Model
	case "ollama":
		return cfg.LLM.Ollama.Model
	case "local":
		return cfg.LLM.Local.ModelType
	default:
		return cfg.LLM.OpenAI.Model
	}
}

// UsesReasoningTokens reports whether the configured provider spends part
// of its output budget on internal reasoning tokens. Callers must raise
// the token ceiling for such providers or visible output can silently
// truncate to empty.
func UsesReasoningTokens(cfg *config.Config) bool {
	return strings.ToLower(strings.TrimSpace(cfg.LLM.Provider)) == "gemini"
}

// ConfigError reports a missing credential or model path. It is fatal and
// raised before any network call is attempted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "llm config: " + e.Reason
}

// ProviderError reports a non-recoverable upstream failure, carrying the
// status and payload the backend returned.
type ProviderError struct {
	Provider string
	Status   int    // HTTP status when applicable, zero otherwise
	Payload  string // upstream response body or SDK error text
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s provider: status %d: %s", e.Provider, e.Status, e.Payload)
	}
	return fmt.Sprintf("%s provider: %s", e.Provider, e.Payload)
}

// FailureClass names the reason a transport-level retry loop gave up.
type FailureClass string

const (
	FailureConnection FailureClass = "connection"
	FailureTimeout    FailureClass = "timeout"
	FailureRateLimit  FailureClass = "rate-limit"
	FailureOther      FailureClass = "other"
)

// TransportExhausted reports that the retry budget ran out. Callers never
// receive a bare low-level error from the transport layer.
type TransportExhausted struct {
	Class    FailureClass
	Attempts int
	Err      error
}

func (e *TransportExhausted) Error() string {
	return fmt.Sprintf("transport exhausted after %d attempts (%s): %v", e.Attempts, e.Class, e.Err)
}

func (e *TransportExhausted) Unwrap() error { return e.Err }

// LocalModelError reports an in-process model load or generation failure
// together with a remediation hint.
type LocalModelError struct {
	Op   string
	Hint string
	Err  error
}

func (e *LocalModelError) Error() string {
	return fmt.Sprintf("local model %s: %v (%s)", e.Op, e.Err, e.Hint)
}

func (e *LocalModelError) Unwrap() error { return e.Err }
