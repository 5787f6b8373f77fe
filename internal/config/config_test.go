package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fleet-usage/internal/usage"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fleet.json", `{"assets":[]}`)
	path := writeFile(t, dir, "config.yaml", `
store:
  driver: json
  dataset_file: fleet.json
reconciler:
  max_per_day: 20
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Store.DatasetFile != filepath.Join(dir, "fleet.json") {
		t.Fatalf("expected dataset path relative to config dir, got %s", c.Store.DatasetFile)
	}
	if c.Reconciler.MaxPerDay != 20 || c.Reconciler.LongGapDays != 60 || c.Reconciler.EnvelopeRangeFactor != 2 {
		t.Fatalf("unexpected reconciler params: %+v", c.Reconciler)
	}
	if c.Report.Concurrency != 4 || c.Server.Port != "8080" {
		t.Fatalf("defaults not applied: %+v %+v", c.Report, c.Server)
	}
	ttl, err := c.CacheTTL()
	if err != nil || ttl != 5*time.Minute {
		t.Fatalf("expected 5m ttl, got %v (%v)", ttl, err)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unknown driver": "store:\n  driver: mongo\n  dsn: x\n",
		"json without dataset": "store:\n  driver: json\n",
		"postgres without dsn": "store:\n  driver: postgres\n",
		"bad ttl": "store:\n  driver: sqlite\n  dsn: x.db\nserver:\n  cache_ttl: soon\n",
		"negative rate": "store:\n  driver: sqlite\n  dsn: x.db\nreconciler:\n  max_per_day: -4\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, dir, "c.yaml", body)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "store:\n  driver: sqlite\n  dsn: local.db\nserver:\n  port: \"9000\"\n")
	t.Setenv("FLEET_DB_DRIVER", "postgres")
	t.Setenv("FLEET_DB_DSN", "postgres://fleet@localhost/fleet?sslmode=disable")
	t.Setenv("API_PORT", "7070")
	t.Setenv("API_ENV", "production")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Store.Driver != DriverPostgres || c.Store.DSN != "postgres://fleet@localhost/fleet?sslmode=disable" {
		t.Fatalf("env override not applied: %+v", c.Store)
	}
	if c.Server.Port != "7070" || !c.Production() {
		t.Fatalf("server env override not applied: %+v", c.Server)
	}
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	c, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if c.Store.Driver != DriverSQLite || c.Store.DSN == "" {
		t.Fatalf("expected sqlite default, got %+v", c.Store)
	}
}

func TestMergeParams(t *testing.T) {
	base := usage.DefaultParams()
	got := MergeParams(base, usage.Params{MaxPerDay: 16, LookbackDays: 45})
	if got.MaxPerDay != 16 || got.LookbackDays != 45 {
		t.Fatalf("override not applied: %+v", got)
	}
	if got.LongGapDays != base.LongGapDays || got.EnvelopeRangeFactor != base.EnvelopeRangeFactor {
		t.Fatalf("unset fields must keep base values: %+v", got)
	}
}
