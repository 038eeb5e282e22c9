package draft

import (
	"strings"
	"testing"
	"time"
)

// Monday 2025-06-09.
var monday = time.Date(2025, time.June, 9, 10, 0, 0, 0, time.UTC)

func TestNextWeekdayIsStrictlyFuture(t *testing.T) {
	tests := []struct {
		from time.Time
		wd   time.Weekday
		want string
	}{
		{monday, time.Friday, "2025-06-13"},
		{monday, time.Tuesday, "2025-06-10"},
		// Same weekday means next week, never today.
		{monday, time.Monday, "2025-06-16"},
	}
	for _, tt := range tests {
		if got := nextWeekday(tt.from, tt.wd).Format("2006-01-02"); got != tt.want {
			t.Errorf("nextWeekday(%s, %s) = %s, want %s", tt.from.Format("2006-01-02"), tt.wd, got, tt.want)
		}
	}
}

func TestAnnotateWeekday(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		prompt string
		want   string
	}{
		{
			name:   "first mention annotated",
			body:   "Can we meet on Friday? Friday works best.",
			prompt: "schedule a meeting on friday",
			want:   "Can we meet on Friday (Fri, Jun 13)? Friday works best.",
		},
		{
			name:   "no weekday in prompt leaves body alone",
			body:   "Can we meet on Friday?",
			prompt: "schedule a meeting soon",
			want:   "Can we meet on Friday?",
		},
		{
			name:   "weekday absent from body",
			body:   "Let me know a good time.",
			prompt: "meet on Friday",
			want:   "Let me know a good time.",
		},
		{
			name:   "already annotated body untouched",
			body:   "Can we meet on Friday (Fri, Jun 13)?",
			prompt: "meet on Friday",
			want:   "Can we meet on Friday (Fri, Jun 13)?",
		},
		{
			name:   "case-insensitive match keeps body casing",
			body:   "see you friday morning",
			prompt: "Meet on FRIDAY",
			want:   "see you friday (Fri, Jun 13) morning",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := annotateWeekday(tt.body, tt.prompt, monday); got != tt.want {
				t.Errorf("annotateWeekday() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnnotateWeekdayIdempotent(t *testing.T) {
	body := "Can we meet on Friday?"
	once := annotateWeekday(body, "meet on Friday", monday)
	twice := annotateWeekday(once, "meet on Friday", monday)
	if once != twice {
		t.Errorf("second pass changed the body: %q vs %q", once, twice)
	}
}

func TestEnsureSignature(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantSame bool
	}{
		{name: "unsigned body gets signature", body: "Please approve the request."},
		{name: "Regards present", body: "Thanks.\n\nRegards,\nAlice", wantSame: true},
		{name: "sincerely lowercase present", body: "Thanks.\n\nYours sincerely,\nBob", wantSame: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ensureSignature(tt.body)
			if tt.wantSame {
				if got != tt.body {
					t.Errorf("signed body was modified: %q", got)
				}
				return
			}
			if !strings.HasSuffix(got, "\n\nRegards,\n[Your Name]") {
				t.Errorf("missing signature: %q", got)
			}
		})
	}
}

func TestEnsureSignatureIdempotent(t *testing.T) {
	once := ensureSignature("Please approve.")
	if twice := ensureSignature(once); twice != once {
		t.Errorf("second pass changed the body: %q", twice)
	}
}
