package handlers

import (
	"net/http"

	"fleet-usage/internal/api/models"
	"fleet-usage/internal/attribution"
	"fleet-usage/internal/config"
	"fleet-usage/internal/metrics"
	"fleet-usage/internal/model"
	"fleet-usage/internal/usage"

	"github.com/gin-gonic/gin"
)

// Reconcile handles POST /api/v1/usage/reconcile
// The readings come from the request body; nothing is read from the store.
func (h *Handler) Reconcile(c *gin.Context) {
	var req models.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	w, ok := bindWindow(c, models.WindowQuery{From: req.From, To: req.To})
	if !ok {
		return
	}

	params := h.Params()
	if req.Params != nil {
		params = config.MergeParams(params, *req.Params)
	}
	if err := params.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_PARAMS", err.Error(), nil)
		return
	}

	in := usage.Inputs{
		Checklist: toReadings(req.Checklist, model.SourceChecklist),
		Diesel:    toReadings(req.Diesel, model.SourceDiesel),
		Window:    w,
	}
	if req.DieselExtended != nil {
		in.DieselExtended = toReadings(req.DieselExtended, model.SourceDiesel)
	}
	res := usage.New(params).Reconcile(in)
	metrics.ObserveReconciliation(res)
	if !req.IncludeSegments {
		res.Segments = nil
	}

	c.JSON(http.StatusOK, models.ReconcileResponse{
		Window: timeWindow(w),
		Params: params,
		Usage:  res.Total,
		Result: res,
	})
}

// toReadings keeps unparsable timestamps as zero times; the reconciler drops
// and counts them.
func toReadings(in []models.ReadingInput, src model.Source) []model.UsageReading {
	out := make([]model.UsageReading, 0, len(in))
	for _, r := range in {
		ts, _ := model.ParseTimestamp(r.Timestamp)
		out = append(out, model.UsageReading{Timestamp: ts, Value: *r.Value, Source: src})
	}
	return out
}

// ResolveAttribution handles POST /api/v1/attribution/resolve
func (h *Handler) ResolveAttribution(c *gin.Context) {
	var req models.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	events := make([]model.AssignmentEvent, 0, len(req.History))
	for _, row := range req.History {
		ev := row.Event()
		if ev.AssetID == "" {
			ev.AssetID = req.AssetID
		}
		events = append(events, ev)
	}
	history := attribution.BuildAssignmentHistoryMap(events)

	resp := models.ResolveResponse{
		AssetID:     req.AssetID,
		Resolutions: make([]models.Resolution, 0, len(req.At)),
	}
	for _, at := range req.At {
		_, valid := model.ParseTimestamp(at)
		resp.Resolutions = append(resp.Resolutions, models.Resolution{
			At:      at,
			Valid:   valid,
			PlantID: attribution.ResolvePlantAtTimestamp(req.AssetID, at, req.CurrentPlantID, history),
		})
	}
	c.JSON(http.StatusOK, resp)
}
