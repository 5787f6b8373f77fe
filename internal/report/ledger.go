package report

import (
	"time"

	"fleet-usage/internal/model"
	"fleet-usage/internal/usage"
)

// Row is one asset's line in a fleet usage report.
// This is the primary artifact for "how much was each machine used, and where".
type Row struct {
	AssetID        string `json:"asset_id"`
	AssetName      string `json:"asset_name"`
	PlantID        string `json:"plant_id"`
	CurrentPlantID string `json:"current_plant_id"`

	Usage float64 `json:"usage"`

	Events           int `json:"events"`
	DieselKept       int `json:"diesel_kept"`
	DieselDropped    int `json:"diesel_dropped"`
	ChecklistKept    int `json:"checklist_kept"`
	ChecklistDropped int `json:"checklist_dropped"`
	InvalidReadings  int `json:"invalid_readings"`
	CappedSegments   int `json:"capped_segments"`
	ResetSegments    int `json:"reset_segments"`

	Envelope *usage.Envelope `json:"envelope,omitempty"`
	Segments []usage.Segment `json:"segments,omitempty"`
}

func newRow(a model.Asset, plantID string, res usage.Result) Row {
	return Row{
		AssetID:          a.ID,
		AssetName:        a.Name,
		PlantID:          plantID,
		CurrentPlantID:   a.CurrentPlantID,
		Usage:            res.Total,
		Events:           res.Events,
		DieselKept:       res.DieselKept,
		DieselDropped:    res.DieselDropped,
		ChecklistKept:    res.ChecklistKept,
		ChecklistDropped: res.ChecklistDropped,
		InvalidReadings:  res.InvalidReadings,
		CappedSegments:   res.CappedSegments,
		ResetSegments:    res.ResetSegments,
		Envelope:         res.Envelope,
		Segments:         res.Segments,
	}
}

type Result struct {
	RunID       string                `json:"run_id"`
	Window      model.ReportingWindow `json:"window"`
	GeneratedAt time.Time             `json:"generated_at"`

	Rows []Row `json:"rows"`

	TotalUsage     float64 `json:"total_usage"`
	AssetsWithData int     `json:"assets_with_data"`
	CappedSegments int     `json:"capped_segments"`
	ResetSegments  int     `json:"reset_segments"`
}

func (r *Result) addTotals() {
	r.TotalUsage, r.AssetsWithData, r.CappedSegments, r.ResetSegments = 0, 0, 0, 0
	for _, row := range r.Rows {
		r.TotalUsage += row.Usage
		if row.Events >= 2 {
			r.AssetsWithData++
		}
		r.CappedSegments += row.CappedSegments
		r.ResetSegments += row.ResetSegments
	}
}

// SegmentRow is a reconciled segment tagged with its asset, for the segments CSV.
type SegmentRow struct {
	AssetID string
	PlantID string
	usage.Segment
}

// Segments flattens the per-asset segment ledgers in row order.
func Segments(rows []Row) []SegmentRow {
	var out []SegmentRow
	for _, r := range rows {
		for _, s := range r.Segments {
			out = append(out, SegmentRow{AssetID: r.AssetID, PlantID: r.PlantID, Segment: s})
		}
	}
	return out
}
