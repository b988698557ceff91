package billing

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/internal/errors"
	"codeberg.org/promptgrid/server/internal/logger"
	"codeberg.org/promptgrid/server/promptgrid/billing"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// CheckoutHandler godoc
// @Summary Start a subscription checkout
// @Description Create a Stripe checkout session for upgrading to a paid tier
// @Tags billing
// @Accept json
// @Produce json
// @Param request body CheckoutRequest true "Checkout request"
// @Success 200 {object} RedirectResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/billing/checkout [post]
// @Security BearerAuth
func CheckoutHandler(service *billing.Service, userRepo *users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "not authenticated")
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid request body", err)
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			errors.NotFound(c, "user not found")
			return
		}

		url, err := service.CreateCheckoutSession(userID, user.Email, req.Tier)
		if err != nil {
			errors.InternalError(c, "failed to create checkout session", err)
			return
		}

		c.JSON(http.StatusOK, RedirectResponse{URL: url})
	}
}

// PortalHandler godoc
// @Summary Open the billing portal
// @Description Create a Stripe customer portal session for the subscriber
// @Tags billing
// @Produce json
// @Success 200 {object} RedirectResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/billing/portal [post]
// @Security BearerAuth
func PortalHandler(service *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "not authenticated")
			return
		}

		url, err := service.CreatePortalSession(c.Request.Context(), userID)
		if err == billing.ErrNoSubscription {
			errors.NotFound(c, "no subscription found")
			return
		}
		if err != nil {
			errors.InternalError(c, "failed to create portal session", err)
			return
		}

		c.JSON(http.StatusOK, RedirectResponse{URL: url})
	}
}

// SubscriptionHandler godoc
// @Summary Get current subscription
// @Description Report the authenticated user's subscription tier and status
// @Tags billing
// @Produce json
// @Success 200 {object} SubscriptionResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/billing/subscription [get]
// @Security BearerAuth
func SubscriptionHandler(repo *billing.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "not authenticated")
			return
		}

		sub, err := repo.FindByUser(c.Request.Context(), userID)
		if err == billing.ErrNoSubscription {
			c.JSON(http.StatusOK, SubscriptionResponse{Tier: "free"})
			return
		}
		if err != nil {
			errors.InternalError(c, "failed to load subscription", err)
			return
		}

		c.JSON(http.StatusOK, SubscriptionResponse{
			Tier:   sub.Tier,
			Status: sub.Status,
		})
	}
}

// WebhookHandler godoc
// @Summary Stripe webhook
// @Description Receive and apply Stripe subscription lifecycle events
// @Tags billing
// @Accept json
// @Success 200 {string} string "ok"
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/billing/webhook [post]
func WebhookHandler(service *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// signature verification needs the raw body
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
		if err != nil {
			errors.BadRequest(c, "failed to read webhook payload", err)
			return
		}

		signature := c.GetHeader("Stripe-Signature")
		if err := service.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
			logger.ErrorErr(err, "stripe webhook handling failed")
			errors.BadRequest(c, "webhook rejected", nil)
			return
		}

		c.String(http.StatusOK, "ok")
	}
}
