package data

import "strings"

// schemaTemplate is shared by both dialects; {{id}}, {{ts}} and {{real}}
// are replaced per driver. Timestamps are TEXT on SQLite so that rows with
// unparsable values survive import and degrade at read time.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS assets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	current_plant_id TEXT
);
CREATE TABLE IF NOT EXISTS asset_plant_history (
	id {{id}},
	asset_id TEXT NOT NULL,
	previous_plant_id TEXT,
	new_plant_id TEXT,
	occurred_at {{ts}}
);
CREATE INDEX IF NOT EXISTS idx_asset_plant_history_asset ON asset_plant_history (asset_id);
CREATE TABLE IF NOT EXISTS checklist_completions (
	id {{id}},
	asset_id TEXT NOT NULL,
	recorded_at {{ts}},
	hours {{real}}
);
CREATE INDEX IF NOT EXISTS idx_checklist_completions_asset ON checklist_completions (asset_id);
CREATE TABLE IF NOT EXISTS diesel_transactions (
	id {{id}},
	asset_id TEXT NOT NULL,
	plant_id TEXT,
	dispensed_at {{ts}},
	horometer {{real}},
	liters {{real}}
);
CREATE INDEX IF NOT EXISTS idx_diesel_transactions_asset ON diesel_transactions (asset_id);
CREATE TABLE IF NOT EXISTS maintenance_costs (
	id {{id}},
	asset_id TEXT NOT NULL,
	occurred_at {{ts}},
	amount {{real}} NOT NULL DEFAULT 0,
	category TEXT NOT NULL DEFAULT ''
)`

func schemaFor(driver string) []string {
	var r *strings.Replacer
	if driver == sqlDriverPostgres {
		r = strings.NewReplacer("{{id}}", "BIGSERIAL PRIMARY KEY", "{{ts}}", "TIMESTAMPTZ", "{{real}}", "DOUBLE PRECISION")
	} else {
		r = strings.NewReplacer("{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{ts}}", "TEXT", "{{real}}", "REAL")
	}
	return splitStatements(r.Replace(schemaTemplate))
}

func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
