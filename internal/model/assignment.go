package model

import "time"

// AssignmentEvent is one relocation record from the asset plant history log.
// The log is append-only; rows are never mutated or deleted.
//
// Empty plant IDs mean "unknown". A zero OccurredAt means the stored
// timestamp was missing or could not be parsed.
type AssignmentEvent struct {
	AssetID         string    `json:"asset_id"`
	PreviousPlantID string    `json:"previous_plant_id,omitempty"`
	NewPlantID      string    `json:"new_plant_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Asset is a piece of equipment tracked by the fleet.
type Asset struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CurrentPlantID string `json:"current_plant_id,omitempty"`
}

// CostEntry is a maintenance or purchase cost booked against an asset.
// Costs are attributed to whichever plant owned the asset at OccurredAt.
type CostEntry struct {
	AssetID    string    `json:"asset_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Amount     float64   `json:"amount"`
	Category   string    `json:"category"`
}
