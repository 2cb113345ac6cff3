package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/shopstack/catalogd/internal/app"
	"github.com/shopstack/catalogd/internal/cache"
	"github.com/shopstack/catalogd/internal/middleware"
	"github.com/shopstack/catalogd/internal/monitoring"
	"github.com/shopstack/catalogd/internal/monitoring/checks"
	"github.com/shopstack/catalogd/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers the catalog routes.
func NewRouter(db *gorm.DB, store cache.Store, catalog *services.CatalogService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if store == nil {
		return nil, fmt.Errorf("cache store must be provided")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	if cfg.Server.RateLimit.Enabled {
		r.Use(middleware.RateLimit(
			middleware.NewCacheRateStore(store),
			cfg.Server.RateLimit.MaxRequests,
			cfg.Server.RateLimit.Window,
		))
	}

	r.NoRoute(middleware.NotFoundHandler)

	registerHealthRoutes(r, cfg, newHealthManager(db, store, cfg))
	if err := registerProductRoutes(r, catalog); err != nil {
		return nil, err
	}

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	return r, nil
}

func newHealthManager(db *gorm.DB, store cache.Store, cfg *app.Config) *monitoring.HealthManager {
	if !cfg.Monitoring.Health.Enabled {
		return nil
	}

	timeout := cfg.Monitoring.Health.Timeout
	manager := monitoring.NewHealthManager()
	manager.RegisterLiveness(checks.Database(db, timeout))
	manager.RegisterReadiness(checks.Database(db, timeout))
	manager.RegisterReadiness(checks.Cache(store, timeout))
	return manager
}
