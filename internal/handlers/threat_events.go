package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/services"
	"github.com/argussec/argus/pkg/response"
)

// ThreatEventHandler exposes threat event listing endpoints.
type ThreatEventHandler struct {
	svc *services.ThreatEventService
}

// NewThreatEventHandler constructs a ThreatEventHandler instance.
func NewThreatEventHandler(db *gorm.DB) (*ThreatEventHandler, error) {
	svc, err := services.NewThreatEventService(db)
	if err != nil {
		return nil, err
	}
	return &ThreatEventHandler{svc: svc}, nil
}

// GET /api/threat-events
func (h *ThreatEventHandler) List(c *gin.Context) {
	h.list(c, "")
}

// GET /api/tenants/:tenantId/threat-events
func (h *ThreatEventHandler) TenantList(c *gin.Context) {
	h.list(c, c.Param("tenantId"))
}

func (h *ThreatEventHandler) list(c *gin.Context, tenantID string) {
	filter := analyticsFilterFromQuery(c)
	filter.TenantID = tenantID

	page, err := h.svc.List(requestContext(c), filter, listOptionsFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, page.Items, &response.Meta{
		Page:       page.Page,
		PerPage:    page.PageSize,
		Total:      int(page.Total),
		TotalPages: page.TotalPages,
	})
}
