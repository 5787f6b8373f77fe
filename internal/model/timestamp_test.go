package model

import (
	"testing"
	"time"
)

func TestParseTimestampLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-10", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"2025-01-10T08:30:00Z", time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC)},
		{"2025-01-10T08:30:00.250Z", time.Date(2025, 1, 10, 8, 30, 0, 250_000_000, time.UTC)},
		{"2025-01-10T02:30:00-06:00", time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC)},
		{"2025-01-10 08:30:00", time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC)},
		{"2025-01-10 08:30:00+00", time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC)},
		{" 2025-01-10T08:30:00 ", time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := ParseTimestamp(tc.in)
		if !ok {
			t.Fatalf("expected %q to parse", tc.in)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%q: expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "2025-13-45", "10/01/2025"} {
		if got, ok := ParseTimestamp(in); ok || !got.IsZero() {
			t.Fatalf("expected %q to be rejected, got %s", in, got)
		}
	}
}

func TestAssignmentRowEventKeepsNulls(t *testing.T) {
	row := AssignmentRow{AssetID: "A1", NewPlantID: StringPtr("P1"), OccurredAt: "garbage"}
	ev := row.Event()
	if ev.PreviousPlantID != "" || ev.NewPlantID != "P1" {
		t.Fatalf("unexpected plants: %+v", ev)
	}
	if !ev.OccurredAt.IsZero() {
		t.Fatalf("expected zero timestamp for unparsable row, got %s", ev.OccurredAt)
	}
}

func TestRowsWithoutCounterAreSkipped(t *testing.T) {
	if _, ok := (ChecklistRow{AssetID: "A1", RecordedAt: "2025-01-01"}).Reading(); ok {
		t.Fatalf("checklist without hours must not produce a reading")
	}
	v := 12.5
	r, ok := (DieselRow{AssetID: "A1", DispensedAt: "2025-01-01", Horometer: &v}).Reading()
	if !ok || r.Value != 12.5 || r.Source != SourceDiesel {
		t.Fatalf("unexpected diesel reading: %+v ok=%v", r, ok)
	}
}
