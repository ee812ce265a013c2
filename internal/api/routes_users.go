package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/handlers"
	"github.com/argussec/argus/internal/middleware"
)

func registerUserRoutes(api *gin.RouterGroup, db *gorm.DB, resolver *authz.Resolver) error {
	userHandler, err := handlers.NewUserHandler(db)
	if err != nil {
		return err
	}

	users := api.Group("/users")
	{
		users.GET("", middleware.RequirePermission(resolver, authz.MustRequirement("users.list")), userHandler.List)
		users.GET("/:id", middleware.RequirePermission(resolver, authz.MustRequirement("users.get")), userHandler.Get)
		users.POST("", middleware.RequirePermission(resolver, authz.MustRequirement("users.create")), userHandler.Create)
		users.PATCH("/:id", middleware.RequirePermission(resolver, authz.MustRequirement("users.update")), userHandler.Update)
		users.DELETE("/:id", middleware.RequirePermission(resolver, authz.MustRequirement("users.delete")), userHandler.Delete)
		users.PUT("/:id/roles", middleware.RequirePermission(resolver, authz.MustRequirement("users.assign_roles")), userHandler.AssignRoles)
	}

	return nil
}
