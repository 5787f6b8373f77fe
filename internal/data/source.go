package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-usage/internal/model"
	"fleet-usage/internal/usage"
)

// ErrNotFound is returned when an asset does not exist.
var ErrNotFound = errors.New("not found")

// Source is the read side the reports need. Implementations return rows in
// storage order; callers sort. Reading queries return rows with
// from <= timestamp < to; rows whose timestamp cannot be parsed are skipped.
type Source interface {
	Assets(ctx context.Context) ([]model.Asset, error)
	Asset(ctx context.Context, id string) (model.Asset, error)
	// AssignmentEvents returns the plant history for the given assets, or for all assets when none are given.
	AssignmentEvents(ctx context.Context, assetIDs ...string) ([]model.AssignmentEvent, error)
	ChecklistReadings(ctx context.Context, assetID string, from, to time.Time) ([]model.UsageReading, error)
	DieselReadings(ctx context.Context, assetID string, from, to time.Time) ([]model.UsageReading, error)
	Costs(ctx context.Context, from, to time.Time) ([]model.CostEntry, error)
	Close() error
}

// FetchUsageInputs loads the readings the reconciler needs for one asset:
// checklist and diesel rows from LookbackDays before the window, plus the
// extended diesel sample from ExtendedLookbackDays before the window, all
// through the window end.
func FetchUsageInputs(ctx context.Context, src Source, assetID string, w model.ReportingWindow, p usage.Params) (usage.Inputs, error) {
	p = p.WithDefaults()
	from := w.From.AddDate(0, 0, -p.LookbackDays)

	checklist, err := src.ChecklistReadings(ctx, assetID, from, w.ToExclusive)
	if err != nil {
		return usage.Inputs{}, fmt.Errorf("checklist readings for %s: %w", assetID, err)
	}
	diesel, err := src.DieselReadings(ctx, assetID, from, w.ToExclusive)
	if err != nil {
		return usage.Inputs{}, fmt.Errorf("diesel readings for %s: %w", assetID, err)
	}

	extended := diesel
	if p.ExtendedLookbackDays != p.LookbackDays {
		extFrom := w.From.AddDate(0, 0, -p.ExtendedLookbackDays)
		extended, err = src.DieselReadings(ctx, assetID, extFrom, w.ToExclusive)
		if err != nil {
			return usage.Inputs{}, fmt.Errorf("extended diesel readings for %s: %w", assetID, err)
		}
	}
	if extended == nil {
		extended = []model.UsageReading{}
	}

	return usage.Inputs{
		Checklist:      checklist,
		Diesel:         diesel,
		DieselExtended: extended,
		Window:         w,
	}, nil
}

func costsBetween(costs []model.CostEntry, from, to time.Time) []model.CostEntry {
	out := make([]model.CostEntry, 0, len(costs))
	for _, c := range costs {
		if c.OccurredAt.IsZero() {
			continue
		}
		if !from.IsZero() && c.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && !c.OccurredAt.Before(to) {
			continue
		}
		out = append(out, c)
	}
	return out
}
