package summarize

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
)

const abstractivePromptTemplate = `Summarize the following email in 2-3 sentences. Keep any dates, deadlines, and action items. Return only the summary text, no preamble.

Email:
%s`

// Abstractive asks Gemini for a short free-form summary of the text. It
// needs a configured Gemini API key; callers that cannot guarantee one
// should prefer Extract.
func Abstractive(ctx context.Context, cfg *config.Config, text string) (string, error) {
	apiKey := cfg.LLM.Gemini.APIKey
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set, abstractive summarization unavailable")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("nothing to summarize")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: fmt.Sprintf(abstractivePromptTemplate, text)}},
		Role:  "user",
	}}

	resp, err := client.Models.GenerateContent(ctx, cfg.LLM.Gemini.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	summary := strings.TrimSpace(resp.Text())
	if summary == "" {
		return "", fmt.Errorf("empty summary response")
	}
	return summary, nil
}
