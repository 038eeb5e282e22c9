package summarize

import (
	"strings"
	"testing"
)

const sampleEmail = "The quarterly budget review is scheduled for Friday at 10am. " +
	"Please bring the updated revenue projections to the meeting. " +
	"The budget review will cover revenue projections and headcount. " +
	"Lunch will be provided afterwards in the main cafeteria. " +
	"My cat did something funny yesterday. " +
	"Remember that revenue projections must include the new region."

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"three sentences", "First one here. Second one here! Third one here?", 3},
		{"collapses whitespace", "First one   here.\n\nSecond one here.", 2},
		{"drops tiny fragments", "Ok. This sentence is long enough to keep.", 1},
		{"empty", "   ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.in)
			if len(got) != tt.want {
				t.Errorf("SplitSentences(%q) = %d sentences %v, want %d", tt.in, len(got), got, tt.want)
			}
		})
	}
}

func TestExtractPrefersCentralSentences(t *testing.T) {
	got := Extract(sampleEmail, 2)
	if !strings.Contains(got, "revenue projections") {
		t.Errorf("summary dropped the dominant topic: %q", got)
	}
	if strings.Contains(got, "cat") {
		t.Errorf("summary kept an off-topic sentence: %q", got)
	}
}

func TestExtractShortTextsComeBackWhole(t *testing.T) {
	text := "Only sentence one here. Only sentence two here."
	got := Extract(text, 3)
	if !strings.Contains(got, "sentence one") || !strings.Contains(got, "sentence two") {
		t.Errorf("short text must survive intact, got %q", got)
	}
}

func TestExtractEmptyAndDegenerateInput(t *testing.T) {
	if got := Extract("", 3); got != "" {
		t.Errorf("Extract(\"\") = %q", got)
	}
	if got := Extract("no terminator at all just words", 3); got == "" {
		t.Error("terminator-free text must not vanish")
	}
}

func TestBestMatchingSnippets(t *testing.T) {
	got := BestMatchingSnippets(sampleEmail, "budget review", 2)
	if len(got) != 2 {
		t.Fatalf("got %d snippets: %v", len(got), got)
	}
	// The sentence matching both terms should outrank single-term hits.
	if !strings.Contains(strings.ToLower(got[0]), "budget review") {
		t.Errorf("best snippet = %q, want the two-term match first", got[0])
	}
}

func TestBestMatchingSnippetsNoMatch(t *testing.T) {
	if got := BestMatchingSnippets(sampleEmail, "zebra", 3); got != nil {
		t.Errorf("expected nil for a query with no hits, got %v", got)
	}
	if got := BestMatchingSnippets(sampleEmail, "", 3); got != nil {
		t.Errorf("expected nil for an empty query, got %v", got)
	}
}
