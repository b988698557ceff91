package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/internal/errors"
	"codeberg.org/promptgrid/server/internal/quota"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// UpdateProfileHandler godoc
// @Summary Update profile
// @Description Update the authenticated user's display name and avatar
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} users.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/users/me [put]
// @Security BearerAuth
func UpdateProfileHandler(userRepo *users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "not authenticated")
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid request body", err)
			return
		}

		user, err := userRepo.UpdateProfile(c.Request.Context(), userID, req.Name, req.AvatarURL)
		if err != nil {
			errors.InternalError(c, "failed to update profile", err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// StatsHandler godoc
// @Summary Get account stats
// @Description Report the authenticated user's tier, credit usage and generation activity
// @Tags users
// @Produce json
// @Success 200 {object} StatsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/users/me/stats [get]
// @Security BearerAuth
func StatsHandler(userRepo *users.Repository, promptRepo *prompts.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "not authenticated")
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			errors.NotFound(c, "user not found")
			return
		}

		activity, err := promptRepo.StatsByUser(c.Request.Context(), userID)
		if err != nil {
			errors.InternalError(c, "failed to load activity", err)
			return
		}

		c.JSON(http.StatusOK, StatsResponse{
			Tier:         user.AccountTier,
			CreditsUsed:  user.DailyCreditsUsed,
			CreditsLimit: quota.Tier(user.AccountTier).DailyLimit(),
			MemberSince:  user.CreatedAt,
			Activity:     activity,
		})
	}
}
