package draft

import (
	"strings"
	"testing"

	"github.com/yaswanthpuritipati/inboXpert/internal/core"
)

func TestEnhancePrompt(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"I am late beacuse of traffic", "I am late because of traffic"},
		{"late Becuase of rain", "late because of rain"},
		{"meet on friday or saturday", "meet on Friday or Saturday"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EnhancePrompt(tt.in); got != tt.want {
			t.Errorf("EnhancePrompt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInferIntentFirstMatchWins(t *testing.T) {
	c := NewComposer(testConfig().Classify)
	tests := []struct {
		prompt string
		want   string
	}{
		{"ask for a day of leave", "request_info"},
		{"say hello to the team", "greeting"},
		// "request" outranks "hello" because of category order.
		{"hello, I have a request", "request_info"},
		{"remind bob about the invoice", "general"},
	}
	for _, tt := range tests {
		if got := c.InferIntent(tt.prompt); got != tt.want {
			t.Errorf("InferIntent(%q) = %q, want %q", tt.prompt, got, tt.want)
		}
	}
}

func TestComposeConversationShape(t *testing.T) {
	c := NewComposer(testConfig().Classify)

	conv, intent := c.Compose(core.DraftRequest{
		Prompt: "wish the team happy holidays", Tone: core.ToneCasual, Length: core.LengthShort,
	})
	if intent != "greeting" {
		t.Fatalf("intent = %q", intent)
	}
	if len(conv) != 2 {
		t.Fatalf("expected system+user, got %d messages", len(conv))
	}
	if conv[0].Role != core.RoleSystem {
		t.Errorf("first message role = %q", conv[0].Role)
	}
	user := conv[1].Content
	if !strings.Contains(user, "wish the team happy holidays") {
		t.Errorf("user turn lost the prompt: %q", user)
	}
	if !strings.Contains(user, "short (50-100 words)") {
		t.Errorf("user turn missing length guidance: %q", user)
	}
}

func TestComposeInjectsExampleForEnglishRequests(t *testing.T) {
	c := NewComposer(testConfig().Classify)

	conv, _ := c.Compose(core.DraftRequest{Prompt: "ask for a day of leave"})
	if len(conv) != 3 {
		t.Fatalf("expected system+example+user for an English request, got %d", len(conv))
	}
	if !strings.Contains(conv[1].Content, "Return JSON only") {
		t.Errorf("example turn missing: %q", conv[1].Content)
	}

	conv, _ = c.Compose(core.DraftRequest{Prompt: "ask for a day of leave", TargetLang: "fr"})
	if len(conv) != 2 {
		t.Errorf("English example must not leak into non-English drafts, got %d messages", len(conv))
	}
}

func TestComposeExplicitIntentSkipsInference(t *testing.T) {
	c := NewComposer(testConfig().Classify)
	_, intent := c.Compose(core.DraftRequest{Prompt: "say hello", Intent: "escalate"})
	if intent != "escalate" {
		t.Errorf("intent = %q, want caller override", intent)
	}
}

func TestLengthGuidanceDefaultsToMedium(t *testing.T) {
	if got := lengthGuidance("weird"); got != "medium (150-250 words)" {
		t.Errorf("lengthGuidance = %q", got)
	}
}
