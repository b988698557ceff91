package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/internal/config"
	"codeberg.org/promptgrid/server/internal/errors"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// BeginAuthHandler godoc
// @Summary Start Google OAuth
// @Description Begin the Google OAuth authentication flow
// @Tags auth
// @Success 302 {string} string "Redirect to Google"
// @Router /api/v1/auth/google [get]
func BeginAuthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Request.URL.Query()
		q.Add("provider", "google")
		c.Request.URL.RawQuery = q.Encode()

		gothic.BeginAuthHandler(c.Writer, c.Request)
	}
}

// CallbackHandler godoc
// @Summary Google OAuth callback
// @Description OAuth provider callback. Returns user data and JWT token
// @Tags auth
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/auth/google/callback [get]
func CallbackHandler(userRepo *users.Repository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Request.URL.Query()
		q.Add("provider", "google")
		c.Request.URL.RawQuery = q.Encode()

		gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
		if err != nil {
			errors.InternalError(c, "authentication failed", err)
			return
		}

		user, err := userRepo.FindOrCreateByGoogle(
			c.Request.Context(),
			gothUser.UserID,
			gothUser.Email,
			gothUser.Name,
			gothUser.AvatarURL,
		)
		if err != nil {
			errors.InternalError(c, "failed to create user", err)
			return
		}

		token, err := auth.GenerateJWT(user.ID, user.Email, cfg.IsAdminEmail(user.Email))
		if err != nil {
			errors.InternalError(c, "failed to generate token", err)
			return
		}

		c.JSON(http.StatusOK, AuthResponse{
			User:  user,
			Token: token,
		})
	}
}

// LogoutHandler godoc
// @Summary Log out
// @Description Clear the OAuth session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/v1/auth/logout [post]
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gothic.Logout(c.Writer, c.Request); err != nil {
			errors.InternalError(c, "failed to log out", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
	}
}

// GetCurrentUserHandler godoc
// @Summary Get current user
// @Description Get authenticated user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/auth/me [get]
// @Security BearerAuth
func GetCurrentUserHandler(userRepo *users.Repository) gin.HandlerFunc {
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

		c.JSON(http.StatusOK, UserResponse{User: user})
	}
}
