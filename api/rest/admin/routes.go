package admin

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/promptgrid/billing"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
	"codeberg.org/promptgrid/server/promptgrid/sessions"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// registers the admin dashboard routes
func RegisterRoutes(
	router *gin.RouterGroup,
	userRepo *users.Repository,
	promptRepo *prompts.Repository,
	sessionRepo *sessions.Repository,
	billingRepo *billing.Repository,
) {
	adminGroup := router.Group("/admin")
	adminGroup.Use(auth.AdminMiddleware())
	{
		adminGroup.GET("/stats", StatsHandler(userRepo, promptRepo, sessionRepo, billingRepo))

		adminGroup.GET("/users", ListUsersHandler(userRepo))
		adminGroup.GET("/users/export", ExportUsersHandler(userRepo))
		adminGroup.PUT("/users/:id/tier", UpdateUserTierHandler(userRepo))

		adminGroup.GET("/prompts", ListPromptsHandler(promptRepo))
		adminGroup.GET("/prompts/export", ExportPromptsHandler(promptRepo))
		adminGroup.GET("/prompts/:id", GetPromptHandler(promptRepo))

		adminGroup.GET("/sessions", ListSessionsHandler(sessionRepo))
		adminGroup.GET("/sessions/export", ExportSessionsHandler(sessionRepo))
	}
}
