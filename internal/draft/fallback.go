package draft

import (
	"regexp"
	"strings"
)

var subjectHeaderRe = regexp.MustCompile(`(?is)^\s*subject\s*:\s*(.+?)(?:\r?\n\s*\r?\n|\r?\n)(.*)$`)

const noSubject = "(No subject)"

// fallbackParse recovers a subject and body from free text when the model
// never produced usable JSON. Heuristics, in order: an explicit
// "Subject:" header, a short first line, the first sentence. The full
// text is always kept as the body so nothing the model wrote is lost.
func fallbackParse(raw string) parsedDraft {
	text := strings.TrimSpace(raw)
	if text == "" {
		return parsedDraft{Subject: noSubject, Body: ""}
	}

	if m := subjectHeaderRe.FindStringSubmatch(text); m != nil {
		subject := strings.TrimSpace(m[1])
		body := strings.TrimSpace(m[2])
		if subject != "" {
			if body == "" {
				body = text
			}
			return parsedDraft{Subject: subject, Body: body}
		}
	}

	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	firstLine = strings.TrimSpace(firstLine)
	if firstLine != "" && len(firstLine) < 80 {
		return parsedDraft{Subject: firstLine, Body: text}
	}

	return parsedDraft{Subject: firstSentence(text), Body: text}
}

// firstSentence returns the text up to the first sentence terminator,
// truncated at a word boundary near 80 characters when the sentence runs
// long.
func firstSentence(text string) string {
	sentence := text
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && isSpaceByte(text[i+1]) {
			sentence = text[:i+1]
			break
		}
	}
	sentence = strings.TrimSpace(sentence)
	if len(sentence) <= 80 {
		return sentence
	}
	cut := sentence[:80]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "..."
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
