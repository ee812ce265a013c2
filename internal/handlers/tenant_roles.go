package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/services"
	"github.com/argussec/argus/pkg/errors"
	"github.com/argussec/argus/pkg/response"
)

// TenantRoleHandler exposes role management endpoints scoped to one tenant.
type TenantRoleHandler struct {
	svc *services.TenantRoleService
}

// NewTenantRoleHandler constructs a TenantRoleHandler instance.
func NewTenantRoleHandler(db *gorm.DB) (*TenantRoleHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewTenantRoleService(db, audit)
	if err != nil {
		return nil, err
	}
	return &TenantRoleHandler{svc: svc}, nil
}

// GET /api/tenants/:tenantId/roles
func (h *TenantRoleHandler) List(c *gin.Context) {
	page, err := h.svc.List(requestContext(c), c.Param("tenantId"), listOptionsFromQuery(c))
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

// GET /api/tenants/:tenantId/roles/:id
func (h *TenantRoleHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(requestContext(c), c.Param("tenantId"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// POST /api/tenants/:tenantId/roles
func (h *TenantRoleHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var body createRoleRequest
	if !bindAndValidate(c, &body) {
		return
	}

	role, err := h.svc.Create(requestContext(c), principal, c.Param("tenantId"), services.CreateTenantRoleInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, role)
}

// PATCH /api/tenants/:tenantId/roles/:id
func (h *TenantRoleHandler) Update(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var body updateRoleRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if body.Name == nil && body.Description == nil {
		response.Error(c, errors.NewBadRequest("no fields provided for update"))
		return
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
		response.Error(c, errors.NewBadRequest("name must not be empty"))
		return
	}

	role, err := h.svc.Update(requestContext(c), principal, c.Param("tenantId"), c.Param("id"), services.UpdateTenantRoleInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// DELETE /api/tenants/:tenantId/roles/:id
func (h *TenantRoleHandler) Delete(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(requestContext(c), principal, c.Param("tenantId"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// PUT /api/tenants/:tenantId/roles/:id/permissions
func (h *TenantRoleHandler) AssignPermissions(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var body assignPermissionsRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if err := h.svc.AssignPermissions(requestContext(c), principal, c.Param("tenantId"), c.Param("id"), body.PermissionIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assigned": true})
}

// GET /api/tenants/:tenantId/permissions
func (h *TenantRoleHandler) ListPermissions(c *gin.Context) {
	details, err := h.svc.ListPermissions(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, details)
}
