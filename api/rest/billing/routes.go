package billing

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/promptgrid/billing"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// registers the billing routes
func RegisterRoutes(
	router *gin.RouterGroup,
	service *billing.Service,
	repo *billing.Repository,
	userRepo *users.Repository,
) {
	billingGroup := router.Group("/billing")
	{
		// the webhook authenticates via its Stripe signature
		billingGroup.POST("/webhook", WebhookHandler(service))

		billingGroup.POST("/checkout", auth.AuthMiddleware(), CheckoutHandler(service, userRepo))
		billingGroup.POST("/portal", auth.AuthMiddleware(), PortalHandler(service))
		billingGroup.GET("/subscription", auth.AuthMiddleware(), SubscriptionHandler(repo))
	}
}
