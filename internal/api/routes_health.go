package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/catalogd/internal/app"
	"github.com/shopstack/catalogd/internal/handlers"
	"github.com/shopstack/catalogd/internal/monitoring"
)

func registerHealthRoutes(r *gin.Engine, cfg *app.Config, manager *monitoring.HealthManager) {
	handler := handlers.NewHealthHandler(manager)
	if !cfg.Monitoring.Health.Enabled || handler == nil {
		r.GET("/health", disabledHealthHandler)
		r.GET("/health/live", disabledHealthHandler)
		r.GET("/health/ready", disabledHealthHandler)
		return
	}

	r.GET("/health", handler.Overview)
	r.GET("/health/live", handler.Live)
	r.GET("/health/ready", handler.Ready)
}

func disabledHealthHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"status":  "disabled",
	})
}
