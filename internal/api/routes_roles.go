package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/handlers"
	"github.com/argussec/argus/internal/middleware"
)

func registerRoleRoutes(api *gin.RouterGroup, db *gorm.DB, resolver *authz.Resolver) error {
	roleHandler, err := handlers.NewRoleHandler(db)
	if err != nil {
		return err
	}

	roles := api.Group("/roles")
	{
		roles.GET("", middleware.RequirePermission(resolver, authz.MustRequirement("roles.list")), roleHandler.List)
		roles.GET("/:id", middleware.RequirePermission(resolver, authz.MustRequirement("roles.get")), roleHandler.Get)
		roles.POST("", middleware.RequirePermission(resolver, authz.MustRequirement("roles.create")), roleHandler.Create)
		roles.PATCH("/:id", middleware.RequirePermission(resolver, authz.MustRequirement("roles.update")), roleHandler.Update)
		roles.DELETE("/:id", middleware.RequirePermission(resolver, authz.MustRequirement("roles.delete")), roleHandler.Delete)
		roles.PUT("/:id/permissions", middleware.RequirePermission(resolver, authz.MustRequirement("roles.assign_permissions")), roleHandler.AssignPermissions)
	}

	api.GET("/permissions", middleware.RequirePermission(resolver, authz.MustRequirement("permissions.list")), roleHandler.ListPermissions)

	return nil
}
