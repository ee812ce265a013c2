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

// RoleHandler exposes platform role management endpoints.
type RoleHandler struct {
	svc *services.RoleService
}

type createRoleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=128"`
	Description string `json:"description" validate:"omitempty,max=512"`
}

type updateRoleRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=128"`
	Description *string `json:"description" validate:"omitempty,max=512"`
}

type assignPermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" validate:"required"`
}

// NewRoleHandler constructs a RoleHandler instance.
func NewRoleHandler(db *gorm.DB) (*RoleHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewRoleService(db, audit)
	if err != nil {
		return nil, err
	}
	return &RoleHandler{svc: svc}, nil
}

// GET /api/roles
func (h *RoleHandler) List(c *gin.Context) {
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

// GET /api/roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// POST /api/roles
func (h *RoleHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var body createRoleRequest
	if !bindAndValidate(c, &body) {
		return
	}

	role, err := h.svc.Create(requestContext(c), principal, services.CreateRoleInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, role)
}

// PATCH /api/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
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

	role, err := h.svc.Update(requestContext(c), principal, c.Param("id"), services.UpdateRoleInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(requestContext(c), principal, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// PUT /api/roles/:id/permissions
func (h *RoleHandler) AssignPermissions(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var body assignPermissionsRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if err := h.svc.AssignPermissions(requestContext(c), principal, c.Param("id"), body.PermissionIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assigned": true})
}

// GET /api/permissions
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	details, err := h.svc.ListPermissions(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, details)
}
