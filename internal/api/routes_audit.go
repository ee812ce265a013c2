package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/handlers"
	"github.com/argussec/argus/internal/middleware"
)

func registerAuditRoutes(api *gin.RouterGroup, db *gorm.DB, resolver *authz.Resolver) error {
	auditHandler, err := handlers.NewAuditHandler(db)
	if err != nil {
		return err
	}

	api.GET("/audit", middleware.RequirePermission(resolver, authz.MustRequirement("audit.list")), auditHandler.List)

	return nil
}
