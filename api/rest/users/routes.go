package users

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// registers the user account routes
func RegisterRoutes(router *gin.RouterGroup, userRepo *users.Repository, promptRepo *prompts.Repository) {
	usersGroup := router.Group("/users")
	usersGroup.Use(auth.AuthMiddleware())
	{
		usersGroup.PUT("/me", UpdateProfileHandler(userRepo))
		usersGroup.GET("/me/stats", StatsHandler(userRepo, promptRepo))
	}
}
