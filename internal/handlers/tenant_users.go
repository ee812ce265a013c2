package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/services"
	"github.com/argussec/argus/pkg/errors"
	"github.com/argussec/argus/pkg/response"
)

// TenantUserHandler exposes user management endpoints inside one tenant.
type TenantUserHandler struct {
	svc *services.TenantUserService
}

type createTenantUserRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=64"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8,max=128"`
	Name     string   `json:"name" validate:"omitempty,max=128"`
	RoleIDs  []string `json:"role_ids" validate:"omitempty,dive,uuid4"`
}

type updateTenantUserRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=64"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Name        *string `json:"name" validate:"omitempty,max=128"`
	IsSuspended *bool   `json:"is_suspended"`
}

// NewTenantUserHandler constructs a TenantUserHandler instance.
func NewTenantUserHandler(db *gorm.DB) (*TenantUserHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewTenantUserService(db, audit)
	if err != nil {
		return nil, err
	}
	return &TenantUserHandler{svc: svc}, nil
}

// GET /api/tenants/:tenantId/users
func (h *TenantUserHandler) List(c *gin.Context) {
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

// GET /api/tenants/:tenantId/users/:id
func (h *TenantUserHandler) Get(c *gin.Context) {
	user, err := h.svc.Get(requestContext(c), c.Param("tenantId"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// POST /api/tenants/:tenantId/users
func (h *TenantUserHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var body createTenantUserRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.svc.Create(requestContext(c), principal, c.Param("tenantId"), services.CreateTenantUserInput{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
		Name:     body.Name,
		RoleIDs:  body.RoleIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// PATCH /api/tenants/:tenantId/users/:id
func (h *TenantUserHandler) Update(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var body updateTenantUserRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if body.Username == nil && body.Email == nil && body.Name == nil && body.IsSuspended == nil {
		response.Error(c, errors.NewBadRequest("no fields provided for update"))
		return
	}

	user, err := h.svc.Update(requestContext(c), principal, c.Param("tenantId"), c.Param("id"), services.UpdateTenantUserInput{
		Username:    body.Username,
		Email:       body.Email,
		Name:        body.Name,
		IsSuspended: body.IsSuspended,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// DELETE /api/tenants/:tenantId/users/:id
func (h *TenantUserHandler) Delete(c *gin.Context) {
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

// PUT /api/tenants/:tenantId/users/:id/roles
func (h *TenantUserHandler) AssignRoles(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var body assignRolesRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if err := h.svc.AssignRoles(requestContext(c), principal, c.Param("tenantId"), c.Param("id"), body.RoleIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assigned": true})
}
