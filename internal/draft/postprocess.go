package draft

import (
	"regexp"
	"strings"
	"time"
)

var anyWeekdayRe = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

var weekdayByName = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// nextWeekday returns the next strictly-future calendar date falling on
// wd. "Tomorrow is Friday" on a Friday means next week, never today.
func nextWeekday(from time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(from.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return from.AddDate(0, 0, days)
}

// annotateWeekday resolves a weekday mentioned in the user's request to a
// concrete upcoming date and rewrites the first mention of that weekday in
// the body as e.g. "Friday (Fri, Jun 13)". The request is the source of
// truth for which weekday to resolve; the body is only edited where it
// repeats that weekday. Bodies already carrying a parenthetical are left
// alone, so the pass is safe to run twice.
func annotateWeekday(body, prompt string, now time.Time) string {
	mention := anyWeekdayRe.FindString(prompt)
	if mention == "" {
		return body
	}
	wd := weekdayByName[strings.ToLower(mention)]
	date := nextWeekday(now, wd)

	nameRe := regexp.MustCompile(`(?i)\b` + strings.ToLower(mention) + `\b`)
	loc := nameRe.FindStringIndex(body)
	if loc == nil {
		return body
	}
	rest := body[loc[1]:]
	if strings.HasPrefix(rest, " (") {
		return body
	}
	name := body[loc[0]:loc[1]]
	return body[:loc[0]] + name + " (" + date.Format("Mon, Jan 2") + ")" + rest
}

// ensureSignature appends a neutral sign-off when the body has none. The
// check is a substring test on the two closings the drafts use, so a body
// the model already signed is never double-signed.
func ensureSignature(body string) string {
	lower := strings.ToLower(body)
	if strings.Contains(lower, "regards") || strings.Contains(lower, "sincerely") {
		return body
	}
	return strings.TrimRight(body, " \n") + "\n\nRegards,\n[Your Name]"
}

// postProcess runs the deterministic fix-up pass over a generated body.
func postProcess(body, prompt string, now time.Time) string {
	body = annotateWeekday(body, prompt, now)
	return ensureSignature(body)
}
