package model

import (
	"testing"
	"time"
)

func TestParseWindowIncludesLastDay(t *testing.T) {
	w, err := ParseWindow("2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if !w.ToExclusive.Equal(want) {
		t.Fatalf("expected to_exclusive %s, got %s", want, w.ToExclusive)
	}
	lastEvening := time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC)
	if !w.Contains(lastEvening) {
		t.Fatalf("expected window to contain %s", lastEvening)
	}
	if w.Contains(want) {
		t.Fatalf("window must exclude its upper bound")
	}
	if got := w.Days(); got != 31 {
		t.Fatalf("expected 31 days, got %v", got)
	}
}

func TestParseWindowSingleDay(t *testing.T) {
	w, err := ParseWindow("2025-03-10", "2025-03-10")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := w.Days(); got != 1 {
		t.Fatalf("expected 1 day, got %v", got)
	}
	if !w.LastDay().Equal(w.From) {
		t.Fatalf("expected last day %s, got %s", w.From, w.LastDay())
	}
}

func TestParseWindowRejectsBadInput(t *testing.T) {
	cases := []struct{ from, to string }{
		{"", "2025-01-01"},
		{"2025-01-01", "01/02/2025"},
		{"2025-02-01", "2025-01-01"},
	}
	for _, tc := range cases {
		if _, err := ParseWindow(tc.from, tc.to); err == nil {
			t.Fatalf("expected error for %q..%q", tc.from, tc.to)
		}
	}
}

func TestAttributionInstantIsInsideWindow(t *testing.T) {
	w, _ := ParseWindow("2025-01-01", "2025-01-31")
	at := w.AttributionInstant()
	if !w.Contains(at) {
		t.Fatalf("attribution instant %s outside %s", at, w)
	}
	if at.Day() != 31 {
		t.Fatalf("expected attribution on the last day, got %s", at)
	}
}

func TestReadingsBetween(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rs := []UsageReading{
		{Timestamp: base.AddDate(0, 0, -1), Value: 1},
		{Timestamp: base, Value: 2},
		{Timestamp: time.Time{}, Value: 3},
		{Timestamp: base.AddDate(0, 0, 2), Value: 4},
	}
	got := ReadingsBetween(rs, base, base.AddDate(0, 0, 2))
	if len(got) != 1 || got[0].Value != 2 {
		t.Fatalf("unexpected readings: %+v", got)
	}
	if all := ReadingsBetween(rs, time.Time{}, time.Time{}); len(all) != 3 {
		t.Fatalf("expected zero-timestamp reading to be dropped, got %d", len(all))
	}
}
