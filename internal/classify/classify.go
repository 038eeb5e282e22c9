// Package classify labels inbox messages with deterministic keyword
// rules: a spam verdict and a reply-intent tag. The keyword sets come
// from configuration so deployments can tune them without a rebuild.
package classify

import (
	"strings"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
)

// Classifier applies the configured keyword sets to message text.
type Classifier struct {
	spamWords     []string
	intentOrder   []string
	intentWords   map[string][]string
	defaultIntent string
}

// New builds a Classifier from the configured sets.
func New(cfg config.Classify) *Classifier {
	defaultIntent := cfg.DefaultIntent
	if defaultIntent == "" {
		defaultIntent = "general"
	}
	return &Classifier{
		spamWords:     lowerAll(cfg.SpamWords),
		intentOrder:   cfg.IntentOrder,
		intentWords:   cfg.IntentWords,
		defaultIntent: defaultIntent,
	}
}

// IsSpam reports whether any spam keyword appears in the subject or body.
func (c *Classifier) IsSpam(subject, body string) bool {
	text := strings.ToLower(subject + " " + body)
	for _, w := range c.spamWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// Intent returns the reply-intent tag for a message. Categories are
// checked in their configured order and the first keyword hit wins, so
// more specific categories must be listed before catch-alls.
func (c *Classifier) Intent(subject, body string) string {
	text := strings.ToLower(subject + " " + body)
	for _, intent := range c.intentOrder {
		for _, kw := range c.intentWords[intent] {
			if strings.Contains(text, strings.ToLower(kw)) {
				return intent
			}
		}
	}
	return c.defaultIntent
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
