package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/argussec/argus/internal/auth"
	"github.com/argussec/argus/internal/services"
	"github.com/argussec/argus/pkg/response"
)

// AuthHandler exposes login and self-profile endpoints.
type AuthHandler struct {
	authSvc     *services.AuthService
	identitySvc *services.IdentityService
}

type loginRequest struct {
	Username string `json:"username" validate:"required,min=2,max=128"`
	Password string `json:"password" validate:"required,min=1,max=256"`
}

// NewAuthHandler constructs an AuthHandler instance.
func NewAuthHandler(db *gorm.DB, jwt *iauth.JWTService) (*AuthHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	authSvc, err := services.NewAuthService(db, jwt, audit)
	if err != nil {
		return nil, err
	}
	identitySvc, err := services.NewIdentityService(db)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{authSvc: authSvc, identitySvc: identitySvc}, nil
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if !bindAndValidate(c, &body) {
		return
	}

	result, err := h.authSvc.Login(requestContext(c), body.Username, body.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// POST /api/auth/tenant-login
func (h *AuthHandler) TenantLogin(c *gin.Context) {
	var body loginRequest
	if !bindAndValidate(c, &body) {
		return
	}

	result, err := h.authSvc.TenantLogin(requestContext(c), body.Username, body.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	profile, err := h.identitySvc.Profile(requestContext(c), principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// GET /api/auth/me/pages
func (h *AuthHandler) MyPages(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	profile, err := h.identitySvc.Profile(requestContext(c), principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile.PageGroups)
}
