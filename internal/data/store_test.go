package data

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fleet-usage/internal/model"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	store, err := OpenSQLStore(ctx, "sqlite", filepath.Join(t.TempDir(), "fleet.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return store
}

func TestSQLStoreImportAndQuery(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	stats, err := store.ImportDataset(ctx, sampleDataset())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if stats.Assets != 2 || stats.Assignments != 3 || stats.Checklists != 5 || stats.Diesel != 3 || stats.Costs != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	assets, err := store.Assets(ctx)
	if err != nil || len(assets) != 2 || assets[0].ID != "EX-01" || assets[0].CurrentPlantID != "P2" {
		t.Fatalf("unexpected assets: %+v (%v)", assets, err)
	}
	if _, err := store.Asset(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	events, err := store.AssignmentEvents(ctx, "EX-01")
	if err != nil || len(events) != 2 {
		t.Fatalf("unexpected history: %+v (%v)", events, err)
	}
	if events[0].PreviousPlantID != "" || events[0].NewPlantID != "P1" {
		t.Fatalf("NULL previous plant must read back empty: %+v", events[0])
	}
	all, _ := store.AssignmentEvents(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}

	from := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	checklist, err := store.ChecklistReadings(ctx, "EX-01", from, to)
	if err != nil {
		t.Fatalf("checklist: %v", err)
	}
	// NULL hours are filtered in SQL, the unparsable timestamp in Go.
	if len(checklist) != 3 {
		t.Fatalf("expected 3 checklist readings, got %+v", checklist)
	}
	diesel, _ := store.DieselReadings(ctx, "EX-01", from, to)
	if len(diesel) != 2 || diesel[1].Value != 1060 {
		t.Fatalf("unexpected diesel readings: %+v", diesel)
	}
	costs, _ := store.Costs(ctx, time.Time{}, time.Time{})
	if len(costs) != 2 || costs[0].Category != "preventive" {
		t.Fatalf("unexpected costs: %+v", costs)
	}
}

func TestSQLStoreReimportUpsertsAssets(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if _, err := store.ImportDataset(ctx, sampleDataset()); err != nil {
		t.Fatalf("import: %v", err)
	}
	update := &model.Dataset{Assets: []model.Asset{{ID: "EX-01", Name: "Excavator 1", CurrentPlantID: "P3"}}}
	if _, err := store.ImportDataset(ctx, update); err != nil {
		t.Fatalf("reimport: %v", err)
	}
	a, err := store.Asset(ctx, "EX-01")
	if err != nil || a.CurrentPlantID != "P3" {
		t.Fatalf("expected upserted plant P3, got %+v (%v)", a, err)
	}
}

func TestOpenSQLStoreRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenSQLStore(context.Background(), "oracle", "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRebindDollar(t *testing.T) {
	got := rebindDollar(`SELECT a FROM t WHERE x = ? AND y IN (?, ?)`)
	want := `SELECT a FROM t WHERE x = $1 AND y IN ($2, $3)`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if placeholders(3) != "?, ?, ?" {
		t.Fatalf("unexpected placeholders: %q", placeholders(3))
	}
}

func TestSchemaForDialects(t *testing.T) {
	pg := schemaFor(sqlDriverPostgres)
	lite := schemaFor(sqlDriverSQLite)
	if len(pg) != len(lite) || len(pg) != 8 {
		t.Fatalf("expected 8 statements per dialect, got %d and %d", len(pg), len(lite))
	}
	for _, stmt := range pg {
		if strings.Contains(stmt, "{{") || strings.Contains(stmt, "AUTOINCREMENT") {
			t.Fatalf("postgres ddl leaked sqlite syntax: %s", stmt)
		}
	}
}
