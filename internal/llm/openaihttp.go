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

// openaiHTTPProvider speaks the chat-completions REST protocol without the
// SDK. It is the degradation target for unknown hosted provider names.
type openaiHTTPProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func newOpenAIHTTPProvider(cfg config.OpenAIConfig) (*openaiHTTPProvider, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigError{Reason: "OPENAI_API_KEY not set"}
	}
	return &openaiHTTPProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  Session(),
	}, nil
}

func (p *openaiHTTPProvider) Name() string { return "openai-http" }

type chatCompletionRequest struct {
	Model       string         `json:"model"`
	Messages    []core.Message `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *openaiHTTPProvider) Chat(ctx context.Context, conv core.Conversation, opts Options) (Response, error) {
	model := opts.Model
	if model == "" {
		model = p.model
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       model,
		Messages:    conv,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode chat request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := doWithRetry(p.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(callCtx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, &ProviderError{Provider: p.Name(), Status: resp.StatusCode, Payload: truncateForError(string(raw))}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || len(parsed.Choices) == 0 {
		return Response{}, &ProviderError{Provider: p.Name(), Payload: "unexpected response shape: " + truncateForError(string(raw))}
	}

	choice := parsed.Choices[0]
	return Response{
		Text:      choice.Message.Content,
		Truncated: choice.FinishReason == "length",
	}, nil
}
