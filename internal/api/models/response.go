package models

import (
	"time"

	"fleet-usage/internal/analysis"
	"fleet-usage/internal/attribution"
	"fleet-usage/internal/report"
	"fleet-usage/internal/usage"
)

// TimeWindow represents a reporting window as inclusive dates
type TimeWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PlantResponse is the plant owning an asset at one instant
type PlantResponse struct {
	AssetID        string `json:"asset_id"`
	At             string `json:"at,omitempty"`
	PlantID        string `json:"plant_id"`
	CurrentPlantID string `json:"current_plant_id"`
}

// TimelineResponse lists the plants an asset sat at during a window
type TimelineResponse struct {
	AssetID string             `json:"asset_id"`
	Window  TimeWindow         `json:"window"`
	Spans   []attribution.Span `json:"spans"`
}

// UsageResponse represents one asset's reconciled usage
type UsageResponse struct {
	AssetID string     `json:"asset_id"`
	PlantID string     `json:"plant_id"`
	Window  TimeWindow `json:"window"`
	Usage   float64    `json:"usage"`
	Report  report.Row `json:"report"`
}

// ReconcileResponse is the result of an ad-hoc reconciliation
type ReconcileResponse struct {
	Window TimeWindow   `json:"window"`
	Params usage.Params `json:"params"`
	Usage  float64      `json:"usage"`
	Result usage.Result `json:"result"`
}

// Resolution is the plant resolved for one requested instant
type Resolution struct {
	At      string `json:"at"`
	Valid   bool   `json:"valid"`
	PlantID string `json:"plant_id"`
}

type ResolveResponse struct {
	AssetID     string       `json:"asset_id"`
	Resolutions []Resolution `json:"resolutions"`
}

// UsageReportResponse represents a fleet usage report
type UsageReportResponse struct {
	RunID          string       `json:"run_id"`
	Window         TimeWindow   `json:"window"`
	GeneratedAt    time.Time    `json:"generated_at"`
	TotalUsage     float64      `json:"total_usage"`
	AssetsWithData int          `json:"assets_with_data"`
	Rows           []report.Row `json:"rows"`
}

// PlantsResponse represents plants ranked by usage
type PlantsResponse struct {
	RunID    string         `json:"run_id"`
	Window   TimeWindow     `json:"window"`
	Rankings []PlantRanking `json:"rankings"`
}

// PlantRanking represents one ranked plant
type PlantRanking struct {
	Rank int `json:"rank"`
	analysis.PlantUsage
}

// CostsResponse represents maintenance costs attributed to plants
type CostsResponse struct {
	Window TimeWindow `json:"window"`
	analysis.CostReport
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
