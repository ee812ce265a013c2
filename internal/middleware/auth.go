package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/argussec/argus/internal/auth"
	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/pkg/errors"
	"github.com/argussec/argus/pkg/response"
)

const (
	CtxClaimsKey    = "authClaims"
	CtxPrincipalKey = "authPrincipal"
	CtxUserIDKey    = "userID"
	CtxTenantIDKey  = "tenantID"
)

// Auth enforces JWT authentication using the supplied JWT service.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) < 8 || !strings.EqualFold(header[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxPrincipalKey, claims.Principal())
		c.Set(CtxUserIDKey, claims.UserID)
		if claims.TenantID != "" {
			c.Set(CtxTenantIDKey, claims.TenantID)
		}

		c.Next()
	}
}

// PrincipalFrom extracts the authenticated principal stored by Auth.
func PrincipalFrom(c *gin.Context) (authz.Principal, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return authz.Principal{}, false
	}
	principal, ok := v.(authz.Principal)
	return principal, ok
}
