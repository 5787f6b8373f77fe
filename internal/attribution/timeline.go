package attribution

import (
	"time"

	"fleet-usage/internal/model"
)

// Span is a stretch of time during which an asset sat at one plant.
// A zero Until means the span is still open.
type Span struct {
	PlantID string    `json:"plant_id"`
	Since   time.Time `json:"since"`
	Until   time.Time `json:"until,omitempty"`
}

// Timeline lays out the spans that overlap [w.From, w.ToExclusive) using the
// same rules as ResolvePlantAt: the plant at w.From opens the first span and
// every relocation inside the window starts a new one.
func Timeline(assetID string, w model.ReportingWindow, currentPlantID string, history History) []Span {
	spans := []Span{{
		PlantID: ResolvePlantAt(assetID, w.From, currentPlantID, history),
		Since:   w.From,
	}}
	for _, ev := range history.Events(assetID) {
		if !ev.OccurredAt.After(w.From) || !ev.OccurredAt.Before(w.ToExclusive) {
			continue
		}
		plant := orFallback(ev.NewPlantID, currentPlantID)
		last := &spans[len(spans)-1]
		if plant == last.PlantID {
			continue
		}
		last.Until = ev.OccurredAt
		spans = append(spans, Span{PlantID: plant, Since: ev.OccurredAt})
	}
	return spans
}
