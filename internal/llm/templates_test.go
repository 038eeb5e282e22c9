package llm

import (
	"strings"
	"testing"

	"github.com/yaswanthpuritipati/inboXpert/internal/core"
)

func TestRenderRoleTagPrompt(t *testing.T) {
	conv := core.Conversation{
		{Role: core.RoleSystem, Content: "be brief"},
		{Role: core.RoleUser, Content: "say hi"},
	}

	prompt, stops := renderLocalPrompt("tinyllama", conv)

	want := "<|system|>\nbe brief</s>\n<|user|>\nsay hi</s>\n<|assistant|>\n"
	if prompt != want {
		t.Errorf("prompt:\ngot  %q\nwant %q", prompt, want)
	}
	if len(stops) == 0 || stops[0] != "</s>" {
		t.Errorf("stop sequences: got %v", stops)
	}
}

func TestRenderInstructPrompt(t *testing.T) {
	conv := core.Conversation{
		{Role: core.RoleSystem, Content: "be brief"},
		{Role: core.RoleUser, Content: "say hi"},
		{Role: core.RoleAssistant, Content: "hi"},
		{Role: core.RoleUser, Content: "now in French"},
	}

	prompt, stops := renderLocalPrompt("mistral-7b", conv)

	want := "<s>[INST] be brief\n\nsay hi [/INST] hi</s>[INST] now in French [/INST]"
	if prompt != want {
		t.Errorf("prompt:\ngot  %q\nwant %q", prompt, want)
	}
	if len(stops) == 0 || stops[0] != "[INST]" {
		t.Errorf("stop sequences: got %v", stops)
	}
}

func TestRenderLocalPromptDefaultsToRoleTags(t *testing.T) {
	conv := core.Conversation{{Role: core.RoleUser, Content: "x"}}
	prompt, _ := renderLocalPrompt("unknown-model", conv)
	if !strings.Contains(prompt, "<|user|>") {
		t.Errorf("unknown model type should use the role-tag family, got %q", prompt)
	}
}
