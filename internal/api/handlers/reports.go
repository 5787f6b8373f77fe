package handlers

import (
	"net/http"

	"fleet-usage/internal/analysis"
	"fleet-usage/internal/api/models"
	"fleet-usage/internal/attribution"

	"github.com/gin-gonic/gin"
)

// UsageReport handles GET /api/v1/reports/usage?from=&to=
func (h *Handler) UsageReport(c *gin.Context) {
	var q models.WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	w, ok := bindWindow(c, q)
	if !ok {
		return
	}
	res, err := h.engine.Run(c.Request.Context(), h.src, w)
	if err != nil {
		h.respondSourceError(c, err)
		return
	}
	// Segment ledgers are large; fetch them per asset instead.
	for i := range res.Rows {
		res.Rows[i].Segments = nil
	}
	c.JSON(http.StatusOK, models.UsageReportResponse{
		RunID:          res.RunID,
		Window:         timeWindow(w),
		GeneratedAt:    res.GeneratedAt,
		TotalUsage:     res.TotalUsage,
		AssetsWithData: res.AssetsWithData,
		Rows:           res.Rows,
	})
}

// PlantReport handles GET /api/v1/reports/plants?from=&to=&limit=
func (h *Handler) PlantReport(c *gin.Context) {
	var q models.PlantsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if q.Limit < 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be >= 0", nil)
		return
	}
	w, ok := bindWindow(c, q.WindowQuery)
	if !ok {
		return
	}
	res, err := h.engine.Run(c.Request.Context(), h.src, w)
	if err != nil {
		h.respondSourceError(c, err)
		return
	}

	ranked := analysis.Top(analysis.RollupByPlant(res.Rows), q.Limit)
	rankings := make([]models.PlantRanking, len(ranked))
	for i, p := range ranked {
		rankings[i] = models.PlantRanking{Rank: i + 1, PlantUsage: p}
	}
	c.JSON(http.StatusOK, models.PlantsResponse{
		RunID:    res.RunID,
		Window:   timeWindow(w),
		Rankings: rankings,
	})
}

// CostReport handles GET /api/v1/reports/costs?from=&to=
func (h *Handler) CostReport(c *gin.Context) {
	var q models.WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	w, ok := bindWindow(c, q)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	costs, err := h.src.Costs(ctx, w.From, w.ToExclusive)
	if err != nil {
		h.respondSourceError(c, err)
		return
	}
	assets, err := h.src.Assets(ctx)
	if err != nil {
		h.respondSourceError(c, err)
		return
	}
	events, err := h.src.AssignmentEvents(ctx)
	if err != nil {
		h.respondSourceError(c, err)
		return
	}
	rep := analysis.AttributeCosts(costs, assets, attribution.BuildAssignmentHistoryMap(events))
	c.JSON(http.StatusOK, models.CostsResponse{
		Window:     timeWindow(w),
		CostReport: rep,
	})
}
