package core

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a chat-style conversation.
type Message struct {
	Role    Role   `json:"role"`    // system, user, or assistant
	Content string `json:"content"` // the message text
}

// Conversation is an ordered sequence of messages sent to a provider.
// Retry iterations derive a new Conversation from the previous one plus a
// corrective turn; an existing Conversation value is never mutated.
type Conversation []Message

// Append returns a new Conversation with msg added, leaving c intact.
func (c Conversation) Append(msg Message) Conversation {
	out := make(Conversation, len(c), len(c)+1)
	copy(out, c)
	return append(out, msg)
}

// Tone options for a draft request.
const (
	ToneFormal = "formal"
	ToneCasual = "casual"
)

// Length options and their word-count targets communicated to the model.
const (
	LengthShort    = "short"    // ~50-100 words
	LengthMedium   = "medium"   // ~150-250 words
	LengthDetailed = "detailed" // ~300-500 words
)

// DraftRequest carries the user's free-text request and generation
// parameters for one email draft. Immutable once built.
type DraftRequest struct {
	Prompt     string `json:"prompt"`           // free-text description of the email to write
	Tone       string `json:"tone"`             // formal, casual, ...
	Length     string `json:"length"`           // short, medium, detailed
	TargetLang string `json:"target_lang"`      // ISO language code for the draft
	Intent     string `json:"intent,omitempty"` // optional; inferred from the prompt when empty
	Model      string `json:"model,omitempty"`  // optional provider model override
}

// Draft is the structured result returned to callers. It is created fresh
// per request and never persisted by the generation pipeline itself.
type Draft struct {
	ID            string    `json:"id"`             // unique identifier for the draft
	Subject       string    `json:"subject"`        // generated subject line
	Body          string    `json:"body"`           // generated email body
	Intent        string    `json:"intent"`         // intent tag used during generation
	Language      string    `json:"language"`       // target language of the draft
	Raw           string    `json:"raw"`            // raw provider reply the draft was parsed from
	ModelUsed     string    `json:"model_used"`     // provider model that produced the draft
	DateGenerated time.Time `json:"date_generated"` // timestamp when the draft was generated
}

// EmailRecord represents a message synced from the user's mailbox.
type EmailRecord struct {
	ID         string    `json:"id"`          // unique identifier for the record
	MessageID  string    `json:"message_id"`  // provider-side message id (e.g. Gmail)
	Sender     string    `json:"sender"`      // From header
	Subject    string    `json:"subject"`     // Subject header
	Snippet    string    `json:"snippet"`     // short preview text
	Body       string    `json:"body"`        // flattened plain-text body
	IsSpam     bool      `json:"is_spam"`     // spam classifier verdict
	Intent     string    `json:"intent"`      // reply-intent classifier label
	Received   time.Time `json:"received"`    // when the message was received
	DateSynced time.Time `json:"date_synced"` // when the record was synced locally
}
