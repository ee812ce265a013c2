package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/app"
	iauth "github.com/argussec/argus/internal/auth"
	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/handlers"
	"github.com/argussec/argus/internal/middleware"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())

	rate := cfg.Server.RateLimit
	if rate.Requests <= 0 {
		rate.Requests = 100
	}
	if rate.Window <= 0 {
		rate.Window = time.Minute
	}
	r.Use(middleware.RateLimit(rate.Requests, rate.Window))

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	resolver, err := authz.NewResolver(db)
	if err != nil {
		return nil, err
	}

	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	if err := registerAuthRoutes(r, api, db, jwt); err != nil {
		return nil, err
	}
	if err := registerRoleRoutes(api, db, resolver); err != nil {
		return nil, err
	}
	if err := registerUserRoutes(api, db, resolver); err != nil {
		return nil, err
	}
	if err := registerTenantRoutes(api, db, resolver); err != nil {
		return nil, err
	}
	if err := registerAnalyticsRoutes(api, db, resolver); err != nil {
		return nil, err
	}
	if err := registerAuditRoutes(api, db, resolver); err != nil {
		return nil, err
	}

	// Metrics endpoint
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
