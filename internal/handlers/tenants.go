package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/services"
	"github.com/argussec/argus/pkg/errors"
	"github.com/argussec/argus/pkg/response"
)

// TenantHandler exposes tenant directory management endpoints.
type TenantHandler struct {
	svc *services.TenantService
}

type createTenantRequest struct {
	Code        string `json:"code" validate:"required,min=2,max=32"`
	Name        string `json:"name" validate:"required,min=2,max=128"`
	Description string `json:"description" validate:"omitempty,max=512"`
}

type updateTenantRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=128"`
	Description *string `json:"description" validate:"omitempty,max=512"`
	IsActive    *bool   `json:"is_active"`
}

// NewTenantHandler constructs a TenantHandler instance.
func NewTenantHandler(db *gorm.DB) (*TenantHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewTenantService(db, audit)
	if err != nil {
		return nil, err
	}
	return &TenantHandler{svc: svc}, nil
}

// GET /api/tenants
func (h *TenantHandler) List(c *gin.Context) {
	page, err := h.svc.List(requestContext(c), listOptionsFromQuery(c))
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

// GET /api/tenants/:tenantId
func (h *TenantHandler) Get(c *gin.Context) {
	tenant, err := h.svc.Get(requestContext(c), c.Param("tenantId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, tenant)
}

// POST /api/tenants
func (h *TenantHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var body createTenantRequest
	if !bindAndValidate(c, &body) {
		return
	}

	tenant, err := h.svc.Create(requestContext(c), principal, services.CreateTenantInput{
		Code:        body.Code,
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tenant)
}

// PATCH /api/tenants/:tenantId
func (h *TenantHandler) Update(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var body updateTenantRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if body.Name == nil && body.Description == nil && body.IsActive == nil {
		response.Error(c, errors.NewBadRequest("no fields provided for update"))
		return
	}

	tenant, err := h.svc.Update(requestContext(c), principal, c.Param("tenantId"), services.UpdateTenantInput{
		Name:        body.Name,
		Description: body.Description,
		IsActive:    body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, tenant)
}

// DELETE /api/tenants/:tenantId
func (h *TenantHandler) Delete(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(requestContext(c), principal, c.Param("tenantId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
