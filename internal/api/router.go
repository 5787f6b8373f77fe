// Package api wires the HTTP routes of the fleet usage service.
package api

import (
	"net/http"

	"fleet-usage/internal/api/handlers"
	"fleet-usage/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine. Set the gin mode before calling it.
func NewRouter(h *handlers.Handler, allowedOrigins []string, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Apply middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))
	router.NoRoute(middleware.NotFound())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/assets", h.ListAssets)
		api.GET("/assets/:id/plant", h.GetAssetPlant)
		api.GET("/assets/:id/timeline", h.GetAssetTimeline)
		api.GET("/assets/:id/usage", h.GetAssetUsage)

		api.POST("/usage/reconcile", h.Reconcile)
		api.POST("/attribution/resolve", h.ResolveAttribution)

		api.GET("/reports/usage", h.UsageReport)
		api.GET("/reports/plants", h.PlantReport)
		api.GET("/reports/costs", h.CostReport)
	}

	return router
}
