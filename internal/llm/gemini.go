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
	"github.com/yaswanthpuritipati/inboXpert/internal/logger"
)

// geminiProvider talks to the Gemini REST endpoint directly. The wire
// format takes a single flattened text part, so the conversation is
// serialized with role prefixes before sending.
type geminiProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func newGeminiProvider(cfg config.GeminiConfig) (*geminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigError{Reason: "GEMINI_API_KEY not set"}
	}
	return &geminiProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  Session(),
	}, nil
}

func (p *geminiProvider) Name() string { return "gemini" }

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig geminiGenConfig  `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature        float64  `json:"temperature"`
	MaxOutputTokens    int      `json:"maxOutputTokens"`
	ResponseModalities []string `json:"responseModalities"`
}

type geminiResponse struct {
	Candidates []struct {
		FinishReason string `json:"finishReason"`
		Content      struct {
			Parts []geminiPart `json:"parts"`
			Text  string       `json:"text"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *geminiProvider) Chat(ctx context.Context, conv core.Conversation, opts Options) (Response, error) {
	model := opts.Model
	if model == "" {
		model = p.model
	}

	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: flattenConversation(conv)}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxTokens,
			// TEXT only: keeps the output budget off non-text modalities.
			ResponseModalities: []string{"TEXT"},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, model, p.apiKey)

	callCtx, cancel := context.WithTimeout(ctx, 70*time.Second)
	defer cancel()

	resp, err := doWithRetry(p.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
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
		return Response{}, fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, &ProviderError{Provider: p.Name(), Status: resp.StatusCode, Payload: truncateForError(string(raw))}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Response{}, &ProviderError{Provider: p.Name(), Payload: "unparseable response: " + truncateForError(string(raw))}
	}
	if len(parsed.Candidates) == 0 {
		return Response{}, &ProviderError{Provider: p.Name(), Payload: "no candidates in response: " + truncateForError(string(raw))}
	}

	candidate := parsed.Candidates[0]
	truncated := candidate.FinishReason == "MAX_TOKENS"

	var text string
	if len(candidate.Content.Parts) > 0 {
		text = candidate.Content.Parts[0].Text
	} else if candidate.Content.Text != "" {
		text = candidate.Content.Text
	}

	// Partial text still counts: return it flagged rather than discarding.
	if text != "" {
		if truncated {
			logger.Warn("gemini response truncated at MAX_TOKENS", "chars", len(text))
		}
		return Response{Text: text, Truncated: truncated}, nil
	}

	if truncated {
		return Response{}, &ProviderError{
			Provider: p.Name(),
			Payload:  "MAX_TOKENS reached before any visible text was produced; raise max_tokens",
		}
	}
	return Response{}, &ProviderError{
		Provider: p.Name(),
		Payload:  fmt.Sprintf("response missing text content (finish reason %q)", candidate.FinishReason),
	}
}

// flattenConversation serializes a chat-style conversation into a single
// role-prefixed text block.
func flattenConversation(conv core.Conversation) string {
	parts := make([]string, 0, len(conv))
	for _, msg := range conv {
		switch msg.Role {
		case core.RoleSystem:
			parts = append(parts, "System: "+msg.Content)
		case core.RoleAssistant:
			parts = append(parts, "Assistant: "+msg.Content)
		default:
			parts = append(parts, "User: "+msg.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

func truncateForError(s string) string {
	if len(s) > 500 {
		return s[:500]
	}
	return s
}
