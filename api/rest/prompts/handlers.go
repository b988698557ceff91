package prompts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/api/rest/pagination"
	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/internal/errors"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
)

// ListHandler godoc
// @Summary List saved prompts
// @Description List the authenticated user's saved prompt grids, newest first
// @Tags prompts
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} ListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/prompts [get]
// @Security BearerAuth
func ListHandler(promptRepo *prompts.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "not authenticated")
			return
		}

		params := pagination.FromQuery(c, 20, 100)

		list, err := promptRepo.ListByUser(c.Request.Context(), userID, params.Limit, params.Offset)
		if err != nil {
			errors.InternalError(c, "failed to list prompts", err)
			return
		}

		total, err := promptRepo.CountByUser(c.Request.Context(), userID)
		if err != nil {
			errors.InternalError(c, "failed to count prompts", err)
			return
		}

		c.JSON(http.StatusOK, ListResponse{
			Prompts:    list,
			Pagination: pagination.NewMeta(params, total),
		})
	}
}

// SaveHandler godoc
// @Summary Save a prompt grid
// @Description Store a previously generated prompt grid for the authenticated user
// @Tags prompts
// @Accept json
// @Produce json
// @Param request body SaveRequest true "Prompt grid to save"
// @Success 201 {object} prompts.Prompt
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/prompts [post]
// @Security BearerAuth
func SaveHandler(promptRepo *prompts.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "not authenticated")
			return
		}

		var req SaveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid request body", err)
			return
		}

		prompt, err := promptRepo.Save(c.Request.Context(), prompts.SaveParams{
			UserID:    &userID,
			SeedIdea:  req.SeedIdea,
			AxisAID:   req.AxisAID,
			AxisBID:   req.AxisBID,
			AxisAName: req.AxisAName,
			AxisBName: req.AxisBName,
			Grid:      req.Grid,
		})
		if err != nil {
			errors.InternalError(c, "failed to save prompt", err)
			return
		}

		c.JSON(http.StatusCreated, prompt)
	}
}

// GetHandler godoc
// @Summary Get a saved prompt
// @Description Fetch one of the authenticated user's saved prompt grids
// @Tags prompts
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} prompts.Prompt
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/prompts/{id} [get]
// @Security BearerAuth
func GetHandler(promptRepo *prompts.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "not authenticated")
			return
		}

		promptID := c.Param("id")
		if !errors.IsValidUUID(promptID) {
			errors.BadRequest(c, "invalid prompt id", nil)
			return
		}

		prompt, err := promptRepo.FindByID(c.Request.Context(), promptID)
		if err != nil {
			errors.NotFound(c, "prompt not found")
			return
		}

		if prompt.UserID == nil || *prompt.UserID != userID {
			errors.NotFound(c, "prompt not found")
			return
		}

		c.JSON(http.StatusOK, prompt)
	}
}

// DeleteHandler godoc
// @Summary Delete a saved prompt
// @Description Delete one of the authenticated user's saved prompt grids
// @Tags prompts
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/prompts/{id} [delete]
// @Security BearerAuth
func DeleteHandler(promptRepo *prompts.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "not authenticated")
			return
		}

		promptID := c.Param("id")
		if !errors.IsValidUUID(promptID) {
			errors.BadRequest(c, "invalid prompt id", nil)
			return
		}

		deleted, err := promptRepo.Delete(c.Request.Context(), promptID, userID)
		if err != nil {
			errors.InternalError(c, "failed to delete prompt", err)
			return
		}
		if !deleted {
			errors.NotFound(c, "prompt not found")
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "prompt deleted"})
	}
}
