package prompts

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
)

// registers the saved prompt routes
func RegisterRoutes(router *gin.RouterGroup, promptRepo *prompts.Repository) {
	promptsGroup := router.Group("/prompts")
	promptsGroup.Use(auth.AuthMiddleware())
	{
		promptsGroup.GET("", ListHandler(promptRepo))
		promptsGroup.POST("", SaveHandler(promptRepo))
		promptsGroup.GET("/:id", GetHandler(promptRepo))
		promptsGroup.DELETE("/:id", DeleteHandler(promptRepo))
	}
}
