package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yaswanthpuritipati/inboXpert/internal/core"
	"github.com/yaswanthpuritipati/inboXpert/internal/llm"
	"github.com/yaswanthpuritipati/inboXpert/internal/logger"
)

// correctiveTurn is appended together with the model's non-compliant reply
// before the second attempt, so the model sees its own output and the
// repair instruction in context.
const correctiveTurn = "You must return ONLY valid JSON with subject and body, nothing else. Return it now."

// parsedDraft is the shape the coercion loop tries to obtain from the model.
type parsedDraft struct {
	Subject string
	Body    string
}

// coerce drives the provider until it yields a JSON object carrying both
// subject and body, up to maxAttempts turns. Transport and provider errors
// abort immediately; only non-compliant text earns a corrective retry.
// The last raw reply is always returned so callers can fall back on
// heuristic parsing.
func coerce(ctx context.Context, provider llm.Provider, conv core.Conversation, opts llm.Options, maxAttempts int) (*parsedDraft, string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var raw string
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := provider.Chat(ctx, conv, opts)
		if err != nil {
			return nil, raw, fmt.Errorf("draft generation attempt %d: %w", attempt+1, err)
		}

		raw = strings.TrimSpace(resp.Text)
		if resp.Truncated {
			if raw == "" {
				return nil, "", fmt.Errorf("draft generation: output truncated before any text was produced (raise llm.max_tokens)")
			}
			logger.Warn("model output truncated, attempting to parse partial reply",
				"provider", provider.Name())
		}

		if parsed := extractDraft(raw); parsed != nil {
			return parsed, raw, nil
		}

		if attempt+1 < maxAttempts {
			logger.Warn("model returned non-JSON reply, sending corrective turn",
				"provider", provider.Name(), "attempt", attempt+1)
			conv = conv.
				Append(core.Message{Role: core.RoleAssistant, Content: raw}).
				Append(core.Message{Role: core.RoleUser, Content: correctiveTurn})
		}
	}

	return nil, raw, nil
}

// extractDraft pulls a subject/body object out of raw model text. It tries
// a strict parse of the whole reply first, then the first balanced {...}
// block for models that wrap JSON in prose or code fences. Replies that
// parse but lack either key are rejected: a partial object is treated the
// same as no object.
func extractDraft(raw string) *parsedDraft {
	if raw == "" {
		return nil
	}
	if d := parseDraftObject(raw); d != nil {
		return d
	}
	if block := balancedJSON(raw); block != "" && block != raw {
		return parseDraftObject(block)
	}
	return nil
}

func parseDraftObject(s string) *parsedDraft {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	subject, okS := m["subject"].(string)
	body, okB := m["body"].(string)
	if !okS || !okB {
		return nil
	}
	return &parsedDraft{Subject: subject, Body: body}
}

// balancedJSON returns the first brace-balanced substring of s, honoring
// JSON string literals and escapes. Falls back to the widest {...} span
// when no balanced block closes, which matches how models usually truncate.
func balancedJSON(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	if end := strings.LastIndexByte(s, '}'); end > start {
		return s[start : end+1]
	}
	return ""
}
