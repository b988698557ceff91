package credits

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/internal/errors"
	"codeberg.org/promptgrid/server/internal/quota"
)

// StatusHandler godoc
// @Summary Check credit status
// @Description Report remaining daily credits for the caller. Stale windows are reset as a side effect.
// @Tags credits
// @Produce json
// @Param session_token query string false "Anonymous session token"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/credits [get]
func StatusHandler(ledger *quota.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, token := auth.ResolveIdentity(c, c.Query("session_token"))

		status, err := ledger.CheckAdmission(c.Request.Context(), identity)
		if err != nil {
			if stderrors.Is(err, quota.ErrAccountNotFound) {
				errors.NotFound(c, "user not found")
				return
			}
			errors.InternalError(c, "failed to check credits", err)
			return
		}

		c.JSON(http.StatusOK, StatusResponse{
			Status:       status,
			SessionToken: token,
		})
	}
}

// CheckHandler godoc
// @Summary Check credit status
// @Description Report remaining daily credits for the caller, minting a session token for new anonymous callers.
// @Tags credits
// @Accept json
// @Produce json
// @Param request body CheckRequest false "Anonymous session token"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/credits/check [post]
func CheckHandler(ledger *quota.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckRequest
		// body is optional, ignore bind failures and mint a token instead
		_ = c.ShouldBindJSON(&req)

		identity, token := auth.ResolveIdentity(c, req.SessionToken)

		status, err := ledger.CheckAdmission(c.Request.Context(), identity)
		if err != nil {
			if stderrors.Is(err, quota.ErrAccountNotFound) {
				errors.NotFound(c, "user not found")
				return
			}
			errors.InternalError(c, "failed to check credits", err)
			return
		}

		c.JSON(http.StatusOK, StatusResponse{
			Status:       status,
			SessionToken: token,
		})
	}
}
