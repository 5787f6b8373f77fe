package data

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fleet-usage/internal/model"
	"fleet-usage/internal/usage"
)

func TestDatasetRoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fleet.json")
	if err := SaveDataset(sampleDataset(), path); err != nil {
		t.Fatalf("save: %v", err)
	}
	src, err := OpenDatasetSource(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	assets, err := src.Assets(context.Background())
	if err != nil {
		t.Fatalf("assets: %v", err)
	}
	if len(assets) != 2 || assets[0].ID != "EX-01" {
		t.Fatalf("expected assets sorted by id, got %+v", assets)
	}
}

func TestMemorySourceQueries(t *testing.T) {
	ctx := context.Background()
	src := NewMemorySource(sampleDataset())

	if _, err := src.Asset(ctx, "NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	events, err := src.AssignmentEvents(ctx, "EX-02")
	if err != nil || len(events) != 1 || !events[0].OccurredAt.IsZero() {
		t.Fatalf("expected one unparsable EX-02 event, got %+v (%v)", events, err)
	}
	all, _ := src.AssignmentEvents(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	checklist, _ := src.ChecklistReadings(ctx, "EX-01", from, to)
	if len(checklist) != 2 {
		t.Fatalf("expected 2 checklist readings in January, got %+v", checklist)
	}
	diesel, _ := src.DieselReadings(ctx, "EX-01", from, to)
	if len(diesel) != 2 || diesel[0].Source != model.SourceDiesel {
		t.Fatalf("unexpected diesel readings: %+v", diesel)
	}
	costs, _ := src.Costs(ctx, from, to)
	if len(costs) != 1 || costs[0].Amount != 300 {
		t.Fatalf("expected the January cost only, got %+v", costs)
	}
}

func TestFetchUsageInputsLooksBack(t *testing.T) {
	src := NewMemorySource(sampleDataset())
	w, _ := model.ParseWindow("2025-01-10", "2025-01-31")

	in, err := FetchUsageInputs(context.Background(), src, "EX-01", w, usage.DefaultParams())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	// Lookback starts 2024-12-11 so the 2024-12-20 checklist is included.
	if len(in.Checklist) != 3 {
		t.Fatalf("expected 3 checklist readings, got %+v", in.Checklist)
	}
	if len(in.DieselExtended) != len(in.Diesel) {
		t.Fatalf("equal lookbacks must share the diesel sample")
	}

	p := usage.DefaultParams()
	p.LookbackDays = 5
	in, _ = FetchUsageInputs(context.Background(), src, "EX-01", w, p)
	if len(in.Checklist) != 2 || len(in.DieselExtended) != 2 || len(in.Diesel) != 1 {
		t.Fatalf("unexpected split lookbacks: checklist=%d diesel=%d extended=%d", len(in.Checklist), len(in.Diesel), len(in.DieselExtended))
	}
}
