package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/services"
	"github.com/argussec/argus/pkg/response"
)

// AnalyticsHandler exposes aggregated threat analytics endpoints. The
// tenant-scoped variants read the tenant id from the route and restrict
// every aggregation to that tenant's events.
type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

// NewAnalyticsHandler constructs an AnalyticsHandler instance.
func NewAnalyticsHandler(db *gorm.DB) (*AnalyticsHandler, error) {
	svc, err := services.NewAnalyticsService(db)
	if err != nil {
		return nil, err
	}
	return &AnalyticsHandler{svc: svc}, nil
}

func (h *AnalyticsHandler) filter(c *gin.Context, tenantScoped bool) services.AnalyticsFilter {
	filter := analyticsFilterFromQuery(c)
	if tenantScoped {
		filter.TenantID = c.Param("tenantId")
	}
	return filter
}

// GET /api/analytics/overview
func (h *AnalyticsHandler) Overview(c *gin.Context) { h.overview(c, false) }

// GET /api/tenants/:tenantId/analytics/overview
func (h *AnalyticsHandler) TenantOverview(c *gin.Context) { h.overview(c, true) }

func (h *AnalyticsHandler) overview(c *gin.Context, tenantScoped bool) {
	overview, err := h.svc.Overview(requestContext(c), h.filter(c, tenantScoped))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, overview)
}

// GET /api/analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) { h.summary(c, false) }

// GET /api/tenants/:tenantId/analytics/summary
func (h *AnalyticsHandler) TenantSummary(c *gin.Context) { h.summary(c, true) }

func (h *AnalyticsHandler) summary(c *gin.Context, tenantScoped bool) {
	summary, err := h.svc.Summary(requestContext(c), h.filter(c, tenantScoped))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// GET /api/analytics/timeline
func (h *AnalyticsHandler) Timeline(c *gin.Context) { h.timeline(c, false) }

// GET /api/tenants/:tenantId/analytics/timeline
func (h *AnalyticsHandler) TenantTimeline(c *gin.Context) { h.timeline(c, true) }

func (h *AnalyticsHandler) timeline(c *gin.Context, tenantScoped bool) {
	points, err := h.svc.Timeline(requestContext(c), h.filter(c, tenantScoped))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, points)
}

// GET /api/analytics/protocols/distribution
func (h *AnalyticsHandler) ProtocolDistribution(c *gin.Context) {
	counts, err := h.svc.ProtocolDistribution(requestContext(c), h.filter(c, false))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, counts)
}

// GET /api/analytics/countries/source/top
func (h *AnalyticsHandler) TopSourceCountries(c *gin.Context) {
	counts, err := h.svc.TopSourceCountries(requestContext(c), h.filter(c, false), parseIntQuery(c, "limit", 10))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, counts)
}

// GET /api/analytics/asns/top
func (h *AnalyticsHandler) TopASNs(c *gin.Context) {
	counts, err := h.svc.TopASNs(requestContext(c), h.filter(c, false), parseIntQuery(c, "limit", 10))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, counts)
}
