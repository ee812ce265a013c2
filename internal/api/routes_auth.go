package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/argussec/argus/internal/auth"
	"github.com/argussec/argus/internal/handlers"
)

func registerAuthRoutes(r *gin.Engine, api *gin.RouterGroup, db *gorm.DB, jwt *iauth.JWTService) error {
	authHandler, err := handlers.NewAuthHandler(db, jwt)
	if err != nil {
		return err
	}

	// Public login routes
	public := r.Group("/api/auth")
	{
		public.POST("/login", authHandler.Login)
		public.POST("/tenant-login", authHandler.TenantLogin)
	}

	// Authenticated self-profile routes
	api.GET("/auth/me", authHandler.Me)
	api.GET("/auth/me/pages", authHandler.MyPages)

	return nil
}
