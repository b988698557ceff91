package auth

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/internal/config"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// registers all authentication routes
func RegisterRoutes(router *gin.RouterGroup, userRepo *users.Repository, cfg *config.Config) {
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/google", BeginAuthHandler())
		authGroup.GET("/google/callback", CallbackHandler(userRepo, cfg))
		authGroup.POST("/logout", LogoutHandler())
		authGroup.GET("/me", auth.AuthMiddleware(), GetCurrentUserHandler(userRepo))
	}
}
