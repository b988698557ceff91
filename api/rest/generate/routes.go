package generate

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/internal/generator"
	"codeberg.org/promptgrid/server/internal/quota"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
	"codeberg.org/promptgrid/server/promptgrid/sessions"
)

// registers the axes catalog and generation routes
func RegisterRoutes(
	router *gin.RouterGroup,
	ledger *quota.Ledger,
	dispatcher *generator.Dispatcher,
	promptRepo *prompts.Repository,
	sessionRepo *sessions.Repository,
) {
	router.GET("/axes", AxesHandler())
	router.POST("/generate", auth.OptionalAuthMiddleware(), GenerateHandler(ledger, dispatcher, promptRepo, sessionRepo))
}
