package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
	"github.com/yaswanthpuritipati/inboXpert/internal/core"
)

// ollamaProvider calls a loopback Ollama daemon. Same message shape as the
// hosted chat protocol, different envelope. Local inference is slow, so
// the call timeout is generous.
type ollamaProvider struct {
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
}

func newOllamaProvider(cfg config.OllamaConfig) (*ollamaProvider, error) {
	timeout := 90 * time.Second
	if cfg.Timeout != "" {
		parsed, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid llm.ollama.timeout %q: %w", cfg.Timeout, err)
		}
		timeout = parsed
	}
	if timeout < 60*time.Second {
		timeout = 60 * time.Second
	}
	return &ollamaProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		timeout: timeout,
		client:  Session(),
	}, nil
}

func (p *ollamaProvider) Name() string { return "ollama" }

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []core.Message `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  ollamaOptions  `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	DoneReason string `json:"done_reason"`
}

func (p *ollamaProvider) Chat(ctx context.Context, conv core.Conversation, opts Options) (Response, error) {
	model := opts.Model
	if model == "" {
		model = p.model
	}

	body, err := json.Marshal(ollamaChatRequest{
		Model:    model,
		Messages: conv,
		Stream:   false,
		Options: ollamaOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
		},
	})
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode ollama request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := doWithRetry(p.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(callCtx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read ollama response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, &ProviderError{Provider: p.Name(), Status: resp.StatusCode, Payload: truncateForError(string(raw))}
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Response{}, &ProviderError{Provider: p.Name(), Payload: "unexpected response shape: " + truncateForError(string(raw))}
	}

	return Response{
		Text:      parsed.Message.Content,
		Truncated: parsed.DoneReason == "length",
	}, nil
}
