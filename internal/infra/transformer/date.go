package transformer

import (
	"strings"
	"time"
)

// wordPressLocalLayout is the timezone-less layout of WordPress.org "date" fields.
const wordPressLocalLayout = "2006-01-02T15:04:05"

// parseDate parses the date formats both WordPress APIs emit. Unparseable
// or empty values yield the zero time.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(wordPressLocalLayout, s); err == nil {
		return t
	}
	return time.Time{}
}
