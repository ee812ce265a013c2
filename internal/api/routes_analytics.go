package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/handlers"
	"github.com/argussec/argus/internal/middleware"
)

func registerAnalyticsRoutes(api *gin.RouterGroup, db *gorm.DB, resolver *authz.Resolver) error {
	analyticsHandler, err := handlers.NewAnalyticsHandler(db)
	if err != nil {
		return err
	}
	eventHandler, err := handlers.NewThreatEventHandler(db)
	if err != nil {
		return err
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/overview", middleware.RequirePermission(resolver, authz.MustRequirement("analytics.overview")), analyticsHandler.Overview)
		analytics.GET("/summary", middleware.RequirePermission(resolver, authz.MustRequirement("analytics.summary")), analyticsHandler.Summary)
		analytics.GET("/timeline", middleware.RequirePermission(resolver, authz.MustRequirement("analytics.timeline")), analyticsHandler.Timeline)
		analytics.GET("/protocols/distribution", middleware.RequirePermission(resolver, authz.MustRequirement("analytics.protocol_distribution")), analyticsHandler.ProtocolDistribution)
		analytics.GET("/countries/source/top", middleware.RequirePermission(resolver, authz.MustRequirement("analytics.top_source_countries")), analyticsHandler.TopSourceCountries)
		analytics.GET("/asns/top", middleware.RequirePermission(resolver, authz.MustRequirement("analytics.top_asns")), analyticsHandler.TopASNs)
	}

	api.GET("/threat-events", middleware.RequirePermission(resolver, authz.MustRequirement("threat_events.list")), eventHandler.List)

	tenant := api.Group("/tenants/:tenantId")

	tenantAnalytics := tenant.Group("/analytics")
	{
		tenantAnalytics.GET("/overview", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_analytics.overview"), "tenantId"), analyticsHandler.TenantOverview)
		tenantAnalytics.GET("/summary", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_analytics.summary"), "tenantId"), analyticsHandler.TenantSummary)
		tenantAnalytics.GET("/timeline", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_analytics.timeline"), "tenantId"), analyticsHandler.TenantTimeline)
	}

	tenant.GET("/threat-events", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_threat_events.list"), "tenantId"), eventHandler.TenantList)

	return nil
}
