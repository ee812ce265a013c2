package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/handlers"
	"github.com/argussec/argus/internal/middleware"
)

func registerTenantRoutes(api *gin.RouterGroup, db *gorm.DB, resolver *authz.Resolver) error {
	tenantHandler, err := handlers.NewTenantHandler(db)
	if err != nil {
		return err
	}
	roleHandler, err := handlers.NewTenantRoleHandler(db)
	if err != nil {
		return err
	}
	userHandler, err := handlers.NewTenantUserHandler(db)
	if err != nil {
		return err
	}

	api.GET("/tenants", middleware.RequirePermission(resolver, authz.MustRequirement("tenants.list")), tenantHandler.List)
	api.POST("/tenants", middleware.RequirePermission(resolver, authz.MustRequirement("tenants.create")), tenantHandler.Create)

	tenant := api.Group("/tenants/:tenantId")

	tenant.GET("", middleware.RequirePermission(resolver, authz.MustRequirement("tenants.get")), tenantHandler.Get)
	tenant.PATCH("", middleware.RequirePermission(resolver, authz.MustRequirement("tenants.update")), tenantHandler.Update)
	tenant.DELETE("", middleware.RequirePermission(resolver, authz.MustRequirement("tenants.delete")), tenantHandler.Delete)

	users := tenant.Group("/users")
	{
		users.GET("", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_users.list"), "tenantId"), userHandler.List)
		users.GET("/:id", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_users.get"), "tenantId"), userHandler.Get)
		users.POST("", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_users.create"), "tenantId"), userHandler.Create)
		users.PATCH("/:id", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_users.update"), "tenantId"), userHandler.Update)
		users.DELETE("/:id", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_users.delete"), "tenantId"), userHandler.Delete)
		users.PUT("/:id/roles", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_users.assign_roles"), "tenantId"), userHandler.AssignRoles)
	}

	roles := tenant.Group("/roles")
	{
		roles.GET("", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_roles.list"), "tenantId"), roleHandler.List)
		roles.GET("/:id", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_roles.get"), "tenantId"), roleHandler.Get)
		roles.POST("", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_roles.create"), "tenantId"), roleHandler.Create)
		roles.PATCH("/:id", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_roles.update"), "tenantId"), roleHandler.Update)
		roles.DELETE("/:id", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_roles.delete"), "tenantId"), roleHandler.Delete)
		roles.PUT("/:id/permissions", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_roles.assign_permissions"), "tenantId"), roleHandler.AssignPermissions)
	}

	tenant.GET("/permissions", middleware.RequireTenantPermission(resolver, authz.MustRequirement("tenant_permissions.list"), "tenantId"), roleHandler.ListPermissions)

	return nil
}
