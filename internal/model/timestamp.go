package model

import (
	"strings"
	"time"
)

// Layouts seen in stored rows: ISO timestamps from the API, Postgres text
// output, and bare calendar dates from forms.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	DateLayout,
}

// ParseTimestamp parses a stored timestamp. Layouts without an offset are read as UTC.
// It reports false for empty or unparsable input instead of returning an error.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
