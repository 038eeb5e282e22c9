package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
	"github.com/yaswanthpuritipati/inboXpert/internal/core"
)

// openaiProvider uses the official SDK. Response text is pulled out by two
// extraction strategies tried in fixed order: the typed accessor path
// first, then a raw-JSON probe that tolerates older wire shapes the typed
// structs do not model.
type openaiProvider struct {
	model string
	opts  []option.RequestOption
}

func newOpenAIProvider(cfg config.OpenAIConfig) (*openaiProvider, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigError{Reason: "OPENAI_API_KEY not set"}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(Session()),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openaiProvider{model: cfg.Model, opts: opts}, nil
}

func (p *openaiProvider) Name() string { return "openai" }

func (p *openaiProvider) Chat(ctx context.Context, conv core.Conversation, opts Options) (Response, error) {
	model := opts.Model
	if model == "" {
		model = p.model
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(conv))
	for _, m := range conv {
		switch m.Role {
		case core.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case core.RoleAssistant:
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	client := openai.NewClient(p.opts...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    msgs,
		Temperature: openai.Float(opts.Temperature),
		MaxTokens:   openai.Int(int64(opts.MaxTokens)),
	})
	if err != nil {
		return Response{}, &ProviderError{Provider: p.Name(), Payload: err.Error()}
	}

	text, err := extractCompletionText(resp)
	if err != nil {
		return Response{}, &ProviderError{Provider: p.Name(), Payload: err.Error()}
	}

	truncated := len(resp.Choices) > 0 && resp.Choices[0].FinishReason == "length"
	return Response{Text: text, Truncated: truncated}, nil
}

// extractCompletionText tries each known response shape in fixed order.
func extractCompletionText(resp *openai.ChatCompletion) (string, error) {
	for _, extract := range []func(*openai.ChatCompletion) (string, bool){
		extractTypedShape,
		extractRawShape,
	} {
		if text, ok := extract(resp); ok {
			return text, nil
		}
	}
	return "", errors.New("no message content in any known completion shape")
}

// extractTypedShape reads the modern SDK shape: Choices[0].Message.Content.
func extractTypedShape(resp *openai.ChatCompletion) (string, bool) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", false
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", false
	}
	return content, true
}

// extractRawShape probes the raw response JSON for the legacy layout. Some
// OpenAI-compatible gateways return message content in places the typed
// structs leave empty.
func extractRawShape(resp *openai.ChatCompletion) (string, bool) {
	if resp == nil {
		return "", false
	}
	raw := resp.RawJSON()
	for _, path := range []string{"choices.0.message.content", "choices.0.text"} {
		if value := gjson.Get(raw, path); value.Exists() && value.String() != "" {
			return value.String(), true
		}
	}
	return "", false
}
