package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"fleet-usage/internal/model"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

const (
	sqlDriverSQLite   = "sqlite"
	sqlDriverPostgres = "pgx"
)

// SQLStore reads and writes the fleet tables through database/sql.
// Queries are written with ? placeholders and rebound for Postgres.
type SQLStore struct {
	db     *sql.DB
	driver string
}

var _ Source = (*SQLStore)(nil)

// ImportStats counts rows written by ImportDataset.
type ImportStats struct {
	Assets      int `json:"assets"`
	Assignments int `json:"assignments"`
	Checklists  int `json:"checklists"`
	Diesel      int `json:"diesel"`
	Costs       int `json:"costs"`
}

// OpenSQLStore opens and pings the database. driver is "sqlite" or "postgres".
func OpenSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	var sqlDriver string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		sqlDriver = sqlDriverSQLite
		if dsn == "" {
			return nil, errors.New("sqlite dsn is required")
		}
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
				return nil, fmt.Errorf("create dirs: %w", err)
			}
		}
	case "postgres", "postgresql", "pgx":
		sqlDriver = sqlDriverPostgres
	default:
		return nil, fmt.Errorf("unsupported sql driver: %q", driver)
	}
	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if sqlDriver == sqlDriverSQLite {
		// One writer at a time; also keeps :memory: databases on one connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return &SQLStore{db: db, driver: sqlDriver}, nil
}

// DB exposes the underlying sql.DB for tooling and tests.
func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaFor(s.driver) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

// ImportDataset writes a dataset in one transaction. Assets are upserted;
// history, readings and costs are appended.
func (s *SQLStore) ImportDataset(ctx context.Context, ds *model.Dataset) (stats ImportStats, retErr error) {
	if ds == nil {
		return stats, errors.New("dataset is nil")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, s.rebind(query), args...)
		return err
	}

	for _, a := range ds.Assets {
		if err := exec(`INSERT INTO assets (id, name, current_plant_id) VALUES (?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name, current_plant_id = excluded.current_plant_id`,
			a.ID, a.Name, nullString(a.CurrentPlantID)); err != nil {
			return stats, fmt.Errorf("insert asset %s: %w", a.ID, err)
		}
		stats.Assets++
	}
	for _, r := range ds.Assignments {
		if err := exec(`INSERT INTO asset_plant_history (asset_id, previous_plant_id, new_plant_id, occurred_at) VALUES (?, ?, ?, ?)`,
			r.AssetID, r.PreviousPlantID, r.NewPlantID, s.timestampArg(r.OccurredAt)); err != nil {
			return stats, fmt.Errorf("insert assignment for %s: %w", r.AssetID, err)
		}
		stats.Assignments++
	}
	for _, r := range ds.Checklists {
		if err := exec(`INSERT INTO checklist_completions (asset_id, recorded_at, hours) VALUES (?, ?, ?)`,
			r.AssetID, s.timestampArg(r.RecordedAt), r.Hours); err != nil {
			return stats, fmt.Errorf("insert checklist for %s: %w", r.AssetID, err)
		}
		stats.Checklists++
	}
	for _, r := range ds.Diesel {
		if err := exec(`INSERT INTO diesel_transactions (asset_id, plant_id, dispensed_at, horometer, liters) VALUES (?, ?, ?, ?, ?)`,
			r.AssetID, nullString(r.PlantID), s.timestampArg(r.DispensedAt), r.Horometer, r.Liters); err != nil {
			return stats, fmt.Errorf("insert diesel for %s: %w", r.AssetID, err)
		}
		stats.Diesel++
	}
	for _, r := range ds.Costs {
		if err := exec(`INSERT INTO maintenance_costs (asset_id, occurred_at, amount, category) VALUES (?, ?, ?, ?)`,
			r.AssetID, s.timestampArg(r.OccurredAt), r.Amount, r.Category); err != nil {
			return stats, fmt.Errorf("insert cost for %s: %w", r.AssetID, err)
		}
		stats.Costs++
	}
	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit: %w", err)
	}
	return stats, nil
}

func (s *SQLStore) Assets(ctx context.Context) ([]model.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, current_plant_id FROM assets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select assets: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []model.Asset
	for rows.Next() {
		var a model.Asset
		var plant sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &plant); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.CurrentPlantID = plant.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) Asset(ctx context.Context, id string) (model.Asset, error) {
	var a model.Asset
	var plant sql.NullString
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, name, current_plant_id FROM assets WHERE id = ?`), id).
		Scan(&a.ID, &a.Name, &plant)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, fmt.Errorf("asset %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("select asset %s: %w", id, err)
	}
	a.CurrentPlantID = plant.String
	return a, nil
}

func (s *SQLStore) AssignmentEvents(ctx context.Context, assetIDs ...string) ([]model.AssignmentEvent, error) {
	query := `SELECT asset_id, previous_plant_id, new_plant_id, occurred_at FROM asset_plant_history`
	args := make([]any, 0, len(assetIDs))
	if len(assetIDs) > 0 {
		query += ` WHERE asset_id IN (` + placeholders(len(assetIDs)) + `)`
		for _, id := range assetIDs {
			args = append(args, id)
		}
	}
	// Insertion order is the log order; it breaks ties between equal timestamps.
	query += ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("select plant history: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []model.AssignmentEvent
	for rows.Next() {
		var ev model.AssignmentEvent
		var prev, next, at sql.NullString
		if err := rows.Scan(&ev.AssetID, &prev, &next, &at); err != nil {
			return nil, fmt.Errorf("scan plant history: %w", err)
		}
		ev.PreviousPlantID = prev.String
		ev.NewPlantID = next.String
		ev.OccurredAt, _ = model.ParseTimestamp(at.String)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *SQLStore) ChecklistReadings(ctx context.Context, assetID string, from, to time.Time) ([]model.UsageReading, error) {
	return s.readings(ctx, model.SourceChecklist,
		`SELECT recorded_at, hours FROM checklist_completions WHERE asset_id = ? AND hours IS NOT NULL ORDER BY id`,
		assetID, from, to)
}

func (s *SQLStore) DieselReadings(ctx context.Context, assetID string, from, to time.Time) ([]model.UsageReading, error) {
	return s.readings(ctx, model.SourceDiesel,
		`SELECT dispensed_at, horometer FROM diesel_transactions WHERE asset_id = ? AND horometer IS NOT NULL ORDER BY id`,
		assetID, from, to)
}

// readings filters the window in Go: stored timestamps may be text that
// the database cannot compare, and such rows must be skipped, not fail the query.
func (s *SQLStore) readings(ctx context.Context, src model.Source, query, assetID string, from, to time.Time) ([]model.UsageReading, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), assetID)
	if err != nil {
		return nil, fmt.Errorf("select %s readings: %w", src, err)
	}
	defer func() { _ = rows.Close() }()
	var all []model.UsageReading
	for rows.Next() {
		var at sql.NullString
		var value float64
		if err := rows.Scan(&at, &value); err != nil {
			return nil, fmt.Errorf("scan %s reading: %w", src, err)
		}
		ts, _ := model.ParseTimestamp(at.String)
		all = append(all, model.UsageReading{Timestamp: ts, Value: value, Source: src})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.ReadingsBetween(all, from, to), nil
}

func (s *SQLStore) Costs(ctx context.Context, from, to time.Time) ([]model.CostEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT asset_id, occurred_at, amount, category FROM maintenance_costs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select costs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var all []model.CostEntry
	for rows.Next() {
		var c model.CostEntry
		var at sql.NullString
		if err := rows.Scan(&c.AssetID, &at, &c.Amount, &c.Category); err != nil {
			return nil, fmt.Errorf("scan cost: %w", err)
		}
		c.OccurredAt, _ = model.ParseTimestamp(at.String)
		all = append(all, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := costsBetween(all, from, to)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

// timestampArg keeps raw text on SQLite. Postgres needs a real timestamp,
// so unparsable values become NULL there.
func (s *SQLStore) timestampArg(raw string) any {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if s.driver != sqlDriverPostgres {
		return raw
	}
	t, ok := model.ParseTimestamp(raw)
	if !ok {
		return nil
	}
	return t
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != sqlDriverPostgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
