package model

import "time"

// Source tags where a counter reading was captured.
// Keep these values stable; they are written to CSV output and stored rows.
type Source string

const (
	SourceChecklist Source = "checklist"
	SourceDiesel    Source = "diesel"
)

func (s Source) Valid() bool {
	return s == SourceChecklist || s == SourceDiesel
}

// UsageReading is one observation of an asset's cumulative hour (or km) counter.
// Physically the counter never decreases, but raw rows may (resets, typos, unit mixups).
type UsageReading struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Source    Source    `json:"source,omitempty"`
}

// ReadingsBetween returns the readings with from <= Timestamp < to, preserving order.
// A zero from or to leaves that side unbounded.
func ReadingsBetween(readings []UsageReading, from, to time.Time) []UsageReading {
	out := make([]UsageReading, 0, len(readings))
	for _, r := range readings {
		if r.Timestamp.IsZero() {
			continue
		}
		if !from.IsZero() && r.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && !r.Timestamp.Before(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}
