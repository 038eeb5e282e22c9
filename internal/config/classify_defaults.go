package config

import "github.com/spf13/viper"

// setClassifyDefaults installs the default keyword sets for the
// deterministic classifiers. These are ordered rule lists, not trained
// models: the first set whose keywords match wins. Override any of them
// in the config file to tune behavior without code changes.
func setClassifyDefaults() {
	viper.SetDefault("classify.default_intent", "general")

	// Reply-intent classifier used on synced mailbox messages.
	viper.SetDefault("classify.intent_order", []string{
		"schedule_meeting", "follow_up", "submit_document",
		"request_info", "acknowledge", "escalate",
	})
	viper.SetDefault("classify.intent_words", map[string][]string{
		"schedule_meeting": {"schedule", "meeting", "call", "reschedule", "slots", "calendar"},
		"follow_up":        {"follow up", "checking in", "gentle reminder", "nudge"},
		"submit_document":  {"attach", "attached", "submission", "resume", "cv", "invoice", "report"},
		"request_info":     {"could you", "please share", "information", "details", "clarify", "question"},
		"acknowledge":      {"noted", "thanks", "thank you", "acknowledge", "received"},
		"escalate":         {"escalate", "urgent", " asap", "priority", "complaint"},
	})

	// Prompt-intent classifier used by the draft composer. The coercion
	// loop injects a worked example only for request-style intents.
	viper.SetDefault("classify.prompt_order", []string{
		"request_info", "greeting", "gratitude", "apology",
	})
	viper.SetDefault("classify.prompt_words", map[string][]string{
		"request_info": {"request", "ask", "need", "require", "please"},
		"greeting":     {"greet", "hello", "hi", "good morning", "good afternoon", "welcome"},
		"gratitude":    {"thank", "appreciate", "grateful"},
		"apology":      {"apolog", "sorry", "regret"},
	})

	viper.SetDefault("classify.spam_words", []string{
		"lottery", "win money", "crypto double", "urgent reward",
		"viagra", "casino", "100% free",
	})
}
