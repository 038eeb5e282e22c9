package classify

import (
	"testing"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
)

func testClassifier() *Classifier {
	return New(config.Classify{
		SpamWords:   []string{"lottery", "free money", "Act Now"},
		IntentOrder: []string{"schedule_meeting", "follow_up", "escalate"},
		IntentWords: map[string][]string{
			"schedule_meeting": {"meeting", "schedule", "calendar"},
			"follow_up":        {"follow up", "following up", "checking in"},
			"escalate":         {"urgent", "asap"},
		},
		DefaultIntent: "general",
	})
}

func TestIsSpam(t *testing.T) {
	c := testClassifier()
	tests := []struct {
		name, subject, body string
		want                bool
	}{
		{"keyword in subject", "You won the LOTTERY", "congrats", true},
		{"keyword in body", "hello", "claim your free money today", true},
		{"mixed-case keyword", "act now or miss out", "", true},
		{"clean message", "Q3 report", "attached as discussed", false},
		{"empty message", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsSpam(tt.subject, tt.body); got != tt.want {
				t.Errorf("IsSpam(%q, %q) = %v, want %v", tt.subject, tt.body, got, tt.want)
			}
		})
	}
}

func TestIntentOrderDecidesTies(t *testing.T) {
	c := testClassifier()
	tests := []struct {
		name, subject, body string
		want                string
	}{
		{"single category", "", "can we schedule a call", "schedule_meeting"},
		{"phrase keyword", "checking in", "any update?", "follow_up"},
		// Both categories match; configured order breaks the tie.
		{"order breaks ties", "urgent meeting", "", "schedule_meeting"},
		{"no match falls through", "lunch?", "pizza on me", "general"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Intent(tt.subject, tt.body); got != tt.want {
				t.Errorf("Intent(%q, %q) = %q, want %q", tt.subject, tt.body, got, tt.want)
			}
		})
	}
}

func TestNewDefaultsIntent(t *testing.T) {
	c := New(config.Classify{})
	if got := c.Intent("anything", "at all"); got != "general" {
		t.Errorf("Intent() = %q, want general fallback", got)
	}
}
