package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"fleet-usage/internal/model"
)

func LoadDataset(path string) (*model.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ds model.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	return &ds, nil
}

func SaveDataset(ds *model.Dataset, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// MemorySource serves a Dataset from memory. It is safe for concurrent reads.
type MemorySource struct {
	assets      []model.Asset
	byID        map[string]model.Asset
	assignments []model.AssignmentEvent
	checklists  map[string][]model.UsageReading
	diesel      map[string][]model.UsageReading
	costs       []model.CostEntry
}

var _ Source = (*MemorySource)(nil)

func NewMemorySource(ds *model.Dataset) *MemorySource {
	s := &MemorySource{
		byID:       map[string]model.Asset{},
		checklists: map[string][]model.UsageReading{},
		diesel:     map[string][]model.UsageReading{},
	}
	if ds == nil {
		return s
	}
	for _, a := range ds.Assets {
		s.byID[a.ID] = a
	}
	s.assets = append(s.assets, ds.Assets...)
	sort.Slice(s.assets, func(i, j int) bool { return s.assets[i].ID < s.assets[j].ID })
	for _, r := range ds.Assignments {
		s.assignments = append(s.assignments, r.Event())
	}
	for _, r := range ds.Checklists {
		if rd, ok := r.Reading(); ok {
			s.checklists[r.AssetID] = append(s.checklists[r.AssetID], rd)
		}
	}
	for _, r := range ds.Diesel {
		if rd, ok := r.Reading(); ok {
			s.diesel[r.AssetID] = append(s.diesel[r.AssetID], rd)
		}
	}
	for _, r := range ds.Costs {
		s.costs = append(s.costs, r.Entry())
	}
	return s
}

// OpenDatasetSource loads a JSON export into a MemorySource.
func OpenDatasetSource(path string) (*MemorySource, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	return NewMemorySource(ds), nil
}

func (s *MemorySource) Assets(ctx context.Context) ([]model.Asset, error) {
	return append([]model.Asset(nil), s.assets...), ctx.Err()
}

func (s *MemorySource) Asset(ctx context.Context, id string) (model.Asset, error) {
	a, ok := s.byID[id]
	if !ok {
		return model.Asset{}, fmt.Errorf("asset %q: %w", id, ErrNotFound)
	}
	return a, ctx.Err()
}

func (s *MemorySource) AssignmentEvents(ctx context.Context, assetIDs ...string) ([]model.AssignmentEvent, error) {
	if len(assetIDs) == 0 {
		return append([]model.AssignmentEvent(nil), s.assignments...), ctx.Err()
	}
	want := make(map[string]bool, len(assetIDs))
	for _, id := range assetIDs {
		want[id] = true
	}
	var out []model.AssignmentEvent
	for _, ev := range s.assignments {
		if want[ev.AssetID] {
			out = append(out, ev)
		}
	}
	return out, ctx.Err()
}

func (s *MemorySource) ChecklistReadings(ctx context.Context, assetID string, from, to time.Time) ([]model.UsageReading, error) {
	return model.ReadingsBetween(s.checklists[assetID], from, to), ctx.Err()
}

func (s *MemorySource) DieselReadings(ctx context.Context, assetID string, from, to time.Time) ([]model.UsageReading, error) {
	return model.ReadingsBetween(s.diesel[assetID], from, to), ctx.Err()
}

func (s *MemorySource) Costs(ctx context.Context, from, to time.Time) ([]model.CostEntry, error) {
	return costsBetween(s.costs, from, to), ctx.Err()
}

func (s *MemorySource) Close() error { return nil }
