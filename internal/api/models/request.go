package models

import (
	"fleet-usage/internal/model"
	"fleet-usage/internal/usage"
)

// WindowQuery is an inclusive calendar date range, both ends YYYY-MM-DD
type WindowQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// UsageQuery represents the query of GET /api/v1/assets/:id/usage
type UsageQuery struct {
	WindowQuery
	IncludeSegments bool `form:"include_segments"`
}

// PlantsQuery represents the query of GET /api/v1/reports/plants
type PlantsQuery struct {
	WindowQuery
	Limit int `form:"limit"` // 0 = all
}

// ReadingInput is one raw counter reading. Timestamps accept the same formats as stored rows.
type ReadingInput struct {
	Timestamp string   `json:"timestamp" binding:"required"`
	Value     *float64 `json:"value" binding:"required"`
}

// ReconcileRequest represents the request body for an ad-hoc reconciliation
type ReconcileRequest struct {
	From           string         `json:"from" binding:"required"` // YYYY-MM-DD
	To             string         `json:"to" binding:"required"`   // YYYY-MM-DD, inclusive
	Checklist      []ReadingInput `json:"checklist" binding:"dive"`
	Diesel         []ReadingInput `json:"diesel" binding:"dive"`
	DieselExtended []ReadingInput `json:"diesel_extended,omitempty" binding:"omitempty,dive"`
	// Params overrides the configured reconciler thresholds field by field.
	Params          *usage.Params `json:"params,omitempty"`
	IncludeSegments bool          `json:"include_segments,omitempty"`
}

// ResolveRequest represents the request body for resolving plants against a supplied history
type ResolveRequest struct {
	AssetID        string                `json:"asset_id" binding:"required"`
	CurrentPlantID string                `json:"current_plant_id"`
	History        []model.AssignmentRow `json:"history"`
	At             []string              `json:"at" binding:"required,min=1"`
}
