package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/middleware"
	"github.com/argussec/argus/pkg/errors"
	"github.com/argussec/argus/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentPrincipal fetches the authenticated principal, writing a 401 when absent.
func currentPrincipal(c *gin.Context) (authz.Principal, bool) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return authz.Principal{}, false
	}
	return principal, true
}
