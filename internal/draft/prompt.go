// Package draft turns a free-text request into a well-formed email draft
// by driving a text-generation provider through a structured-output
// coercion loop and a deterministic post-processing pass.
package draft

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
	"github.com/yaswanthpuritipati/inboXpert/internal/core"
)

var (
	typoRe     = regexp.MustCompile(`(?i)\b(beacuse|becuase)\b`)
	weekdayRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bmonday\b`),
		regexp.MustCompile(`(?i)\btuesday\b`),
		regexp.MustCompile(`(?i)\bwednesday\b`),
		regexp.MustCompile(`(?i)\bthursday\b`),
		regexp.MustCompile(`(?i)\bfriday\b`),
		regexp.MustCompile(`(?i)\bsaturday\b`),
		regexp.MustCompile(`(?i)\bsunday\b`),
	}
	weekdayNames = []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}
)

// EnhancePrompt canonicalizes the raw user request: a small known-typo set
// is fixed up and weekday names are capitalized. This is a deterministic
// text pass, not a language-model step.
func EnhancePrompt(userPrompt string) string {
	p := strings.TrimSpace(userPrompt)
	if p == "" {
		return ""
	}
	p = typoRe.ReplaceAllString(p, "because")
	for i, re := range weekdayRes {
		p = re.ReplaceAllString(p, weekdayNames[i])
	}
	return p
}

// Composer builds the instruction payload for one draft request. The
// intent classifier is an ordered keyword-membership rule list driven by
// configuration, intentionally not ML: the coercion loop depends on the
// resulting tag for category-specific prompt augmentation.
type Composer struct {
	order         []string
	words         map[string][]string
	defaultIntent string
}

// NewComposer builds a Composer from the configured keyword sets.
func NewComposer(cfg config.Classify) *Composer {
	defaultIntent := cfg.DefaultIntent
	if defaultIntent == "" {
		defaultIntent = "general"
	}
	return &Composer{
		order:         cfg.PromptOrder,
		words:         cfg.PromptWords,
		defaultIntent: defaultIntent,
	}
}

// InferIntent runs the ordered keyword checks against the canonicalized
// prompt; the first matching category wins.
func (c *Composer) InferIntent(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, intent := range c.order {
		for _, kw := range c.words[intent] {
			if strings.Contains(lower, kw) {
				return intent
			}
		}
	}
	return c.defaultIntent
}

const systemInstruction = "You are a professional email assistant. " +
	"When asked to produce an email, you MUST return ONLY valid JSON and nothing else. " +
	"The JSON object MUST contain exactly two keys: subject (a short subject line) and body (the full email body with \\n\\n between paragraphs). " +
	"Do NOT provide commentary, do not wrap JSON in markdown or code fences. Use placeholders like [Manager's Name] or [Your Name] if no names are provided. " +
	"IMPORTANT: Follow the user's prompt EXACTLY. If they ask for a simple greeting, write a simple greeting. If they ask for a request, write a request. Do not add content that wasn't requested."

const requestExample = `Example:
Prompt: "ask for a day off tomorrow for a medical appointment"
Tone: formal
Length: short

Return JSON only:
{"subject":"Request for one day leave due to medical appointment","body":"Dear [Manager's Name]\n\nI am writing to request one day of leave tomorrow, [date], due to a medical appointment. I have updated the team and will be available by phone for emergencies.\n\nRegards,\n[Your Name]"}`

// lengthGuidance maps the requested length to an explicit word-count
// target the model can follow.
func lengthGuidance(length string) string {
	switch length {
	case core.LengthShort:
		return "short (50-100 words)"
	case core.LengthDetailed:
		return "detailed (300-500 words)"
	default:
		return "medium (150-250 words)"
	}
}

// Compose builds the conversation for a draft request and returns it with
// the resolved intent tag. Pure construction, no side effects.
func (c *Composer) Compose(req core.DraftRequest) (core.Conversation, string) {
	enhanced := EnhancePrompt(req.Prompt)

	intent := req.Intent
	if intent == "" {
		intent = c.InferIntent(enhanced)
	}

	conv := core.Conversation{{Role: core.RoleSystem, Content: systemInstruction}}

	// A worked example helps request-style drafts, but it is written in
	// English: injecting it for other target languages would bias both
	// style and language, so it is gated on both conditions.
	if (intent == "request_info" || intent == "request_action") && isEnglish(req.TargetLang) {
		conv = conv.Append(core.Message{Role: core.RoleUser, Content: requestExample})
	}

	userTurn := fmt.Sprintf(
		"Compose an email based on the user's request. Follow their prompt EXACTLY - do not add extra content.\n\n"+
			"User's request: %s\n"+
			"Tone: %s\n"+
			"Length: %s\n"+
			"Target language: %s\n\n"+
			"Return ONLY a single valid JSON object with keys: subject (string), body (string).\n"+
			"Example format: {\"subject\":\"...\",\"body\":\"...\"}\n"+
			"Do not include any other text or explanation. Follow the user's request exactly.\n",
		enhanced, req.Tone, lengthGuidance(req.Length), req.TargetLang,
	)
	conv = conv.Append(core.Message{Role: core.RoleUser, Content: userTurn})

	return conv, intent
}

func isEnglish(lang string) bool {
	lower := strings.ToLower(strings.TrimSpace(lang))
	return lower == "" || lower == "en" || strings.HasPrefix(lower, "en-")
}
