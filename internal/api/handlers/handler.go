package handlers

import (
	"errors"
	"net/http"

	"fleet-usage/internal/api/models"
	"fleet-usage/internal/data"
	"fleet-usage/internal/model"
	"fleet-usage/internal/report"
	"fleet-usage/internal/usage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the fleet endpoints from one data source.
type Handler struct {
	src    data.Source
	engine *report.Engine
	log    *zap.Logger
}

// NewHandler creates a handler; src is usually a *data.CachedSource.
func NewHandler(src data.Source, params usage.Params, concurrency int, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		src:    src,
		engine: report.New(params, concurrency, log),
		log:    log,
	}
}

// Params returns the configured reconciler thresholds.
func (h *Handler) Params() usage.Params {
	return h.engine.Reconciler.Params
}

func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondSourceError maps data source failures to HTTP errors.
func (h *Handler) respondSourceError(c *gin.Context, err error) {
	if errors.Is(err, data.ErrNotFound) {
		respondError(c, http.StatusNotFound, "ASSET_NOT_FOUND", err.Error(), nil)
		return
	}
	h.log.Error("data source failure", zap.String("path", c.FullPath()), zap.Error(err))
	respondError(c, http.StatusInternalServerError, "SOURCE_ERROR", "Failed to read fleet data", nil)
}

// bindWindow parses the from/to query into a reporting window or writes a 400.
func bindWindow(c *gin.Context, q models.WindowQuery) (model.ReportingWindow, bool) {
	w, err := model.ParseWindow(q.From, q.To)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_WINDOW", err.Error(), map[string]interface{}{
			"from": q.From,
			"to":   q.To,
		})
		return model.ReportingWindow{}, false
	}
	return w, true
}

func timeWindow(w model.ReportingWindow) models.TimeWindow {
	return models.TimeWindow{
		From: w.From.Format(model.DateLayout),
		To:   w.LastDay().Format(model.DateLayout),
	}
}
