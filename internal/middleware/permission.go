package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/pkg/errors"
	"github.com/argussec/argus/pkg/metrics"
	"github.com/argussec/argus/pkg/response"
)

// RequirePermission checks the requirement's platform permission against
// the authenticated principal's platform roles.
func RequirePermission(resolver *authz.Resolver, req authz.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		allowed, err := resolver.Allowed(c.Request.Context(), principal, req.Platform)
		finishPermissionCheck(c, req.Platform, allowed, err)
	}
}

// RequireTenantPermission enforces the tenant-first, platform-fallback
// order for a tenant-context route. The target tenant is read from the
// named path parameter; requirements without a tenant code degrade to a
// plain platform check.
func RequireTenantPermission(resolver *authz.Resolver, req authz.Requirement, tenantParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		var (
			allowed bool
			err     error
		)
		if req.Tenant == "" {
			allowed, err = resolver.Allowed(c.Request.Context(), principal, req.Platform)
		} else {
			tenantID := c.Param(tenantParam)
			allowed, err = resolver.AllowedInTenant(c.Request.Context(), principal, req.Tenant, req.Platform, tenantID)
		}
		finishPermissionCheck(c, req.Platform, allowed, err)
	}
}

func finishPermissionCheck(c *gin.Context, code string, allowed bool, err error) {
	if err != nil {
		// Internal error while checking permissions
		metrics.PermissionChecks.WithLabelValues(code, "error").Inc()
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{"code": errors.ErrInternalServer.Code, "message": "permission check failed"}})
		return
	}
	if !allowed {
		metrics.PermissionChecks.WithLabelValues(code, "denied").Inc()
		response.Error(c, errors.ErrForbidden)
		c.Abort()
		return
	}
	metrics.PermissionChecks.WithLabelValues(code, "allowed").Inc()
	c.Next()
}
