// Package filter derives the visible subset of a loaded sessions page from a
// live search term.
//
// The filter is page-scoped on purpose: pagination is server-side, so the
// engine only ever sees the currently loaded page. This is the documented
// contract, not a gap to fix by reaching for a server-side search.
package filter

import (
	"strings"
	"time"

	"hearline-admin/internal/model"
)

// scheduledDateLayout is the fixed format used when matching a search term
// against a session's scheduled date. Ambient locale would make matches
// non-reproducible across environments, so we pin one format (UTC).
const scheduledDateLayout = "Jan 2, 2006"

// FormatScheduledDate renders the date the same way the filter matches it,
// so what the user sees is what their search term runs against.
func FormatScheduledDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(scheduledDateLayout)
}

// Visible returns the sessions matching term by case-insensitive substring
// against the user name, listener name, or formatted scheduled date.
// An empty (or all-whitespace) term matches everything.
func Visible(sessions []model.Session, term string) []model.Session {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return sessions
	}
	out := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if matches(s, term) {
			out = append(out, s)
		}
	}
	return out
}

func matches(s model.Session, lowerTerm string) bool {
	if strings.Contains(strings.ToLower(s.User.Name), lowerTerm) {
		return true
	}
	if strings.Contains(strings.ToLower(s.Listener.Name), lowerTerm) {
		return true
	}
	return strings.Contains(strings.ToLower(FormatScheduledDate(s.ScheduledAt)), lowerTerm)
}
