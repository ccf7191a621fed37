package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/auth"
	"github.com/Prannav-7/electrostore-client-sub000/config"
)

// SetupAuthRoutes registers the public /api/auth/* endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(db, cfg.JWTSecret, cfg.AdminEmail))
		authGroup.POST("/login", auth.LoginHandler(db, cfg.JWTSecret, cfg.AdminEmail))
	}
}
