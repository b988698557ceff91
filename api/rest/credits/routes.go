package credits

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/internal/quota"
)

// registers the credit status route
func RegisterRoutes(router *gin.RouterGroup, ledger *quota.Ledger) {
	router.GET("/credits", auth.OptionalAuthMiddleware(), StatusHandler(ledger))
	router.POST("/credits/check", auth.OptionalAuthMiddleware(), CheckHandler(ledger))
}
