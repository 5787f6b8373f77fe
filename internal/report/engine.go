// Package report runs the usage reconciler over a whole fleet and attributes
// each asset's usage to the plant that owned it at the end of the window.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fleet-usage/internal/attribution"
	"fleet-usage/internal/data"
	"fleet-usage/internal/metrics"
	"fleet-usage/internal/model"
	"fleet-usage/internal/usage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Engine struct {
	Reconciler  *usage.Reconciler
	Concurrency int
	Logger      *zap.Logger
}

// New returns an engine; a nil logger discards output.
func New(p usage.Params, concurrency int, logger *zap.Logger) *Engine {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Reconciler: usage.New(p), Concurrency: concurrency, Logger: logger}
}

// Run reconciles every asset of src over w. One failing asset fails the run.
func (e *Engine) Run(ctx context.Context, src data.Source, w model.ReportingWindow) (*Result, error) {
	if src == nil {
		return nil, errors.New("source is nil")
	}
	started := time.Now()
	defer metrics.ObserveReport(started)

	assets, err := src.Assets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	events, err := src.AssignmentEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load plant history: %w", err)
	}
	history := attribution.BuildAssignmentHistoryMap(events)

	rows := make([]Row, len(assets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Concurrency)
	for i, a := range assets {
		i, a := i, a
		g.Go(func() error {
			row, err := e.Asset(gctx, src, a, history, w)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].AssetID < rows[j].AssetID })
	res := &Result{
		RunID:       uuid.NewString(),
		Window:      w,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	}
	res.addTotals()

	e.Logger.Info("usage report complete",
		zap.String("run_id", res.RunID),
		zap.String("window", w.String()),
		zap.Int("assets", len(rows)),
		zap.Float64("total_usage", res.TotalUsage),
		zap.Duration("elapsed", time.Since(started)),
	)
	return res, nil
}

// Asset reconciles a single asset and attributes it at w.AttributionInstant().
func (e *Engine) Asset(ctx context.Context, src data.Source, a model.Asset, history attribution.History, w model.ReportingWindow) (Row, error) {
	in, err := data.FetchUsageInputs(ctx, src, a.ID, w, e.Reconciler.Params)
	if err != nil {
		return Row{}, fmt.Errorf("asset %s: %w", a.ID, err)
	}
	res := e.Reconciler.Reconcile(in)
	metrics.ObserveReconciliation(res)

	plant := attribution.ResolvePlantAt(a.ID, w.AttributionInstant(), a.CurrentPlantID, history)
	e.Logger.Debug("asset reconciled",
		zap.String("asset_id", a.ID),
		zap.String("plant_id", plant),
		zap.Float64("usage", res.Total),
		zap.Int("diesel_dropped", res.DieselDropped),
		zap.Int("checklist_dropped", res.ChecklistDropped),
		zap.Int("capped_segments", res.CappedSegments),
	)
	return newRow(a, plant, res), nil
}
