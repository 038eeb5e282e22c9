package llm

import (
	"strings"

	"github.com/yaswanthpuritipati/inboXpert/internal/core"
)

// renderLocalPrompt formats a conversation for an in-process model. Two
// template families are supported: role-tagged turns with an end token
// (tinyllama/zephyr lineage) and bracketed instruction tags (mistral
// lineage). The returned stop sequences bound generation for that family.
func renderLocalPrompt(modelType string, conv core.Conversation) (string, []string) {
	if strings.Contains(modelType, "mistral") {
		return renderInstructPrompt(conv), []string{"[INST]", "</s>"}
	}
	return renderRoleTagPrompt(conv), []string{"</s>", "<|user|>"}
}

// renderRoleTagPrompt emits <|role|> blocks terminated by </s>, ending
// with an open assistant turn for the model to complete.
func renderRoleTagPrompt(conv core.Conversation) string {
	var b strings.Builder
	for _, msg := range conv {
		switch msg.Role {
		case core.RoleSystem:
			b.WriteString("<|system|>\n")
		case core.RoleAssistant:
			b.WriteString("<|assistant|>\n")
		default:
			b.WriteString("<|user|>\n")
		}
		b.WriteString(msg.Content)
		b.WriteString("</s>\n")
	}
	b.WriteString("<|assistant|>\n")
	return b.String()
}

// renderInstructPrompt emits [INST] ... [/INST] blocks. System content is
// folded into the first instruction; assistant turns close their
// preceding instruction pair.
func renderInstructPrompt(conv core.Conversation) string {
	var b strings.Builder
	b.WriteString("<s>")

	var pending []string
	flush := func() {
		if len(pending) == 0 {
			return
		}
		b.WriteString("[INST] ")
		b.WriteString(strings.Join(pending, "\n\n"))
		b.WriteString(" [/INST]")
		pending = pending[:0]
	}

	for _, msg := range conv {
		switch msg.Role {
		case core.RoleAssistant:
			flush()
			b.WriteString(" ")
			b.WriteString(msg.Content)
			b.WriteString("</s>")
		default:
			// System and user content both go inside the instruction tags.
			pending = append(pending, msg.Content)
		}
	}
	flush()
	return b.String()
}
