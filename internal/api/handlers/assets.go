package handlers

import (
	"net/http"
	"strings"

	"fleet-usage/internal/api/models"
	"fleet-usage/internal/attribution"
	"fleet-usage/internal/model"

	"github.com/gin-gonic/gin"
)

// ListAssets handles GET /api/v1/assets
func (h *Handler) ListAssets(c *gin.Context) {
	assets, err := h.src.Assets(c.Request.Context())
	if err != nil {
		h.respondSourceError(c, err)
		return
	}
	if assets == nil {
		assets = []model.Asset{}
	}
	c.JSON(http.StatusOK, gin.H{
		"assets": assets,
		"count":  len(assets),
	})
}

// loadAsset fetches the asset and its plant history.
func (h *Handler) loadAsset(c *gin.Context) (model.Asset, attribution.History, bool) {
	ctx := c.Request.Context()
	asset, err := h.src.Asset(ctx, c.Param("id"))
	if err != nil {
		h.respondSourceError(c, err)
		return model.Asset{}, nil, false
	}
	// The full history is cached; per-asset queries are not.
	events, err := h.src.AssignmentEvents(ctx)
	if err != nil {
		h.respondSourceError(c, err)
		return model.Asset{}, nil, false
	}
	return asset, attribution.BuildAssignmentHistoryMap(events), true
}

// GetAssetPlant handles GET /api/v1/assets/:id/plant?at=
// Without at the asset's current plant is returned.
func (h *Handler) GetAssetPlant(c *gin.Context) {
	at := strings.TrimSpace(c.Query("at"))
	if at != "" {
		if _, ok := model.ParseTimestamp(at); !ok {
			respondError(c, http.StatusBadRequest, "INVALID_TIMESTAMP", "at must be an RFC3339 timestamp or YYYY-MM-DD date", map[string]interface{}{"at": at})
			return
		}
	}
	asset, history, ok := h.loadAsset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.PlantResponse{
		AssetID:        asset.ID,
		At:             at,
		PlantID:        attribution.ResolvePlantAtTimestamp(asset.ID, at, asset.CurrentPlantID, history),
		CurrentPlantID: asset.CurrentPlantID,
	})
}

// GetAssetTimeline handles GET /api/v1/assets/:id/timeline?from=&to=
func (h *Handler) GetAssetTimeline(c *gin.Context) {
	var q models.WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	w, ok := bindWindow(c, q)
	if !ok {
		return
	}
	asset, history, ok := h.loadAsset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.TimelineResponse{
		AssetID: asset.ID,
		Window:  timeWindow(w),
		Spans:   attribution.Timeline(asset.ID, w, asset.CurrentPlantID, history),
	})
}

// GetAssetUsage handles GET /api/v1/assets/:id/usage?from=&to=&include_segments=
func (h *Handler) GetAssetUsage(c *gin.Context) {
	var q models.UsageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	w, ok := bindWindow(c, q.WindowQuery)
	if !ok {
		return
	}
	asset, history, ok := h.loadAsset(c)
	if !ok {
		return
	}
	row, err := h.engine.Asset(c.Request.Context(), h.src, asset, history, w)
	if err != nil {
		h.respondSourceError(c, err)
		return
	}
	if !q.IncludeSegments {
		row.Segments = nil
	}
	c.JSON(http.StatusOK, models.UsageResponse{
		AssetID: asset.ID,
		PlantID: row.PlantID,
		Window:  timeWindow(w),
		Usage:   row.Usage,
		Report:  row,
	})
}
