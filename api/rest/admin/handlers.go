package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/api/rest/pagination"
	"codeberg.org/promptgrid/server/internal/errors"
	"codeberg.org/promptgrid/server/internal/export"
	"codeberg.org/promptgrid/server/promptgrid/billing"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
	"codeberg.org/promptgrid/server/promptgrid/sessions"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// StatsHandler godoc
// @Summary Platform stats
// @Description Summarize users, prompt volume and active anonymous sessions
// @Tags admin
// @Produce json
// @Success 200 {object} StatsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /api/v1/admin/stats [get]
// @Security BearerAuth
func StatsHandler(
	userRepo *users.Repository,
	promptRepo *prompts.Repository,
	sessionRepo *sessions.Repository,
	billingRepo *billing.Repository,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		byTier, err := userRepo.CountByTier(ctx)
		if err != nil {
			errors.InternalError(c, "failed to count users", err)
			return
		}

		totalUsers := 0
		for _, n := range byTier {
			totalUsers += n
		}

		totalPrompts, err := promptRepo.AdminCount(ctx, prompts.ListFilters{})
		if err != nil {
			errors.InternalError(c, "failed to count prompts", err)
			return
		}

		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		promptsToday, err := promptRepo.CountSince(ctx, today)
		if err != nil {
			errors.InternalError(c, "failed to count prompts", err)
			return
		}

		creditsToday, err := userRepo.CreditsUsedToday(ctx)
		if err != nil {
			errors.InternalError(c, "failed to sum credits", err)
			return
		}

		activeSessions, err := sessionRepo.AdminCount(ctx, sessions.ListFilters{ActiveOnly: true})
		if err != nil {
			errors.InternalError(c, "failed to count sessions", err)
			return
		}

		activeSubs, revenue, err := billingRepo.ActiveStats(ctx)
		if err != nil {
			errors.InternalError(c, "failed to load subscription stats", err)
			return
		}

		c.JSON(http.StatusOK, StatsResponse{
			TotalUsers:          totalUsers,
			UsersByTier:         byTier,
			TotalPrompts:        totalPrompts,
			PromptsToday:        promptsToday,
			CreditsToday:        creditsToday,
			ActiveSubscriptions: activeSubs,
			AnonymousSessions:   activeSessions,
			EstimatedRevenue:    revenue,
		})
	}
}

// ListUsersHandler godoc
// @Summary List users
// @Description List users with optional email, tier and date filters
// @Tags admin
// @Produce json
// @Param email query string false "Email substring filter"
// @Param tier query string false "Tier filter"
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} UsersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/admin/users [get]
// @Security BearerAuth
func ListUsersHandler(userRepo *users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, params, err := userFilters(c)
		if err != nil {
			errors.BadRequest(c, "invalid date filter", err)
			return
		}

		list, err := userRepo.AdminList(c.Request.Context(), filters)
		if err != nil {
			errors.InternalError(c, "failed to list users", err)
			return
		}

		total, err := userRepo.AdminCount(c.Request.Context(), filters)
		if err != nil {
			errors.InternalError(c, "failed to count users", err)
			return
		}

		c.JSON(http.StatusOK, UsersResponse{
			Users:      list,
			Pagination: pagination.NewMeta(params, total),
		})
	}
}

// UpdateUserTierHandler godoc
// @Summary Change a user's tier
// @Description Manually move a user between tiers
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateTierRequest true "Tier change"
// @Success 200 {object} users.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/admin/users/{id}/tier [put]
// @Security BearerAuth
func UpdateUserTierHandler(userRepo *users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")
		if !errors.IsValidUUID(userID) {
			errors.BadRequest(c, "invalid user id", nil)
			return
		}

		var req UpdateTierRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		user, err := userRepo.UpdateTier(c.Request.Context(), userID, req.Tier)
		if err != nil {
			errors.NotFound(c, "user not found")
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// ListPromptsHandler godoc
// @Summary List prompts
// @Description List generated prompts with optional user email and date filters
// @Tags admin
// @Produce json
// @Param email query string false "Owner email substring filter"
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} PromptsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/admin/prompts [get]
// @Security BearerAuth
func ListPromptsHandler(promptRepo *prompts.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, params, err := promptFilters(c)
		if err != nil {
			errors.BadRequest(c, "invalid date filter", err)
			return
		}

		list, err := promptRepo.AdminList(c.Request.Context(), filters)
		if err != nil {
			errors.InternalError(c, "failed to list prompts", err)
			return
		}

		total, err := promptRepo.AdminCount(c.Request.Context(), filters)
		if err != nil {
			errors.InternalError(c, "failed to count prompts", err)
			return
		}

		c.JSON(http.StatusOK, PromptsResponse{
			Prompts:    list,
			Pagination: pagination.NewMeta(params, total),
		})
	}
}

// GetPromptHandler godoc
// @Summary Get any prompt by ID
// @Description Fetch a prompt with its full generated grid, regardless of owner
// @Tags admin
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} prompts.Prompt
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/admin/prompts/{id} [get]
// @Security BearerAuth
func GetPromptHandler(promptRepo *prompts.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		c.JSON(http.StatusOK, prompt)
	}
}

// ListSessionsHandler godoc
// @Summary List anonymous sessions
// @Description List anonymous sessions, optionally only unexpired ones
// @Tags admin
// @Produce json
// @Param active query bool false "Only unexpired sessions"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} SessionsResponse
// @Router /api/v1/admin/sessions [get]
// @Security BearerAuth
func ListSessionsHandler(sessionRepo *sessions.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := pagination.FromQuery(c, 50, 200)
		active, _ := strconv.ParseBool(c.Query("active"))

		filters := sessions.ListFilters{
			ActiveOnly: active,
			Limit:      params.Limit,
			Offset:     params.Offset,
		}

		list, err := sessionRepo.AdminList(c.Request.Context(), filters)
		if err != nil {
			errors.InternalError(c, "failed to list sessions", err)
			return
		}

		total, err := sessionRepo.AdminCount(c.Request.Context(), filters)
		if err != nil {
			errors.InternalError(c, "failed to count sessions", err)
			return
		}

		c.JSON(http.StatusOK, SessionsResponse{
			Sessions:   list,
			Pagination: pagination.NewMeta(params, total),
		})
	}
}

// ExportUsersHandler godoc
// @Summary Export users as CSV
// @Description Download users matching the listing filters as a CSV file
// @Tags admin
// @Produce text/csv
// @Param email query string false "Email substring filter"
// @Param tier query string false "Tier filter"
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/admin/users/export [get]
// @Security BearerAuth
func ExportUsersHandler(userRepo *users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, _, err := userFilters(c)
		if err != nil {
			errors.BadRequest(c, "invalid date filter", err)
			return
		}
		filters.Limit = exportRowCap
		filters.Offset = 0

		list, err := userRepo.AdminList(c.Request.Context(), filters)
		if err != nil {
			errors.InternalError(c, "failed to list users", err)
			return
		}

		rows := make([][]string, 0, len(list))
		for _, u := range list {
			rows = append(rows, []string{
				u.ID,
				u.Email,
				u.Name,
				u.AccountTier,
				strconv.Itoa(u.DailyCreditsUsed),
				u.CreditsResetDate.Format("2006-01-02"),
				u.CreatedAt.Format(time.RFC3339),
			})
		}

		header := []string{"id", "email", "name", "tier", "daily_credits_used", "credits_reset_date", "created_at"}
		if err := export.WriteCSV(c, export.Filename("users", time.Now()), header, rows); err != nil {
			errors.InternalError(c, "failed to write export", err)
		}
	}
}

// ExportPromptsHandler godoc
// @Summary Export prompts as CSV
// @Description Download prompts matching the listing filters as a CSV file
// @Tags admin
// @Produce text/csv
// @Param email query string false "Owner email substring filter"
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/admin/prompts/export [get]
// @Security BearerAuth
func ExportPromptsHandler(promptRepo *prompts.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, _, err := promptFilters(c)
		if err != nil {
			errors.BadRequest(c, "invalid date filter", err)
			return
		}
		filters.Limit = exportRowCap
		filters.Offset = 0

		list, err := promptRepo.AdminList(c.Request.Context(), filters)
		if err != nil {
			errors.InternalError(c, "failed to list prompts", err)
			return
		}

		rows := make([][]string, 0, len(list))
		for _, p := range list {
			owner := ""
			if p.UserID != nil {
				owner = *p.UserID
			}
			rows = append(rows, []string{
				p.ID,
				owner,
				p.SeedIdea,
				p.AxisAName,
				p.AxisBName,
				strconv.Itoa(p.CreditsUsed),
				p.CreatedAt.Format(time.RFC3339),
			})
		}

		header := []string{"id", "user_id", "seed_idea", "axis_a", "axis_b", "credits_used", "created_at"}
		if err := export.WriteCSV(c, export.Filename("prompts", time.Now()), header, rows); err != nil {
			errors.InternalError(c, "failed to write export", err)
		}
	}
}

// ExportSessionsHandler godoc
// @Summary Export anonymous sessions as CSV
// @Description Download anonymous sessions as a CSV file
// @Tags admin
// @Produce text/csv
// @Param active query bool false "Only unexpired sessions"
// @Success 200 {string} string "CSV document"
// @Router /api/v1/admin/sessions/export [get]
// @Security BearerAuth
func ExportSessionsHandler(sessionRepo *sessions.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		active, _ := strconv.ParseBool(c.Query("active"))

		list, err := sessionRepo.AdminList(c.Request.Context(), sessions.ListFilters{
			ActiveOnly: active,
			Limit:      exportRowCap,
		})
		if err != nil {
			errors.InternalError(c, "failed to list sessions", err)
			return
		}

		rows := make([][]string, 0, len(list))
		for _, s := range list {
			rows = append(rows, []string{
				s.Token,
				strconv.Itoa(s.CreditsUsed),
				s.IPAddress,
				s.UserAgent,
				s.CreatedAt.Format(time.RFC3339),
				s.ExpiresAt.Format(time.RFC3339),
			})
		}

		header := []string{"session_token", "credits_used", "ip_address", "user_agent", "created_at", "expires_at"}
		if err := export.WriteCSV(c, export.Filename("sessions", time.Now()), header, rows); err != nil {
			errors.InternalError(c, "failed to write export", err)
		}
	}
}

const exportRowCap = 10000

func userFilters(c *gin.Context) (users.ListFilters, pagination.Params, error) {
	params := pagination.FromQuery(c, 50, 200)

	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return users.ListFilters{}, params, err
	}

	return users.ListFilters{
		Email:         c.Query("email"),
		Tier:          c.Query("tier"),
		CreatedAfter:  from,
		CreatedBefore: to,
		Limit:         params.Limit,
		Offset:        params.Offset,
	}, params, nil
}

func promptFilters(c *gin.Context) (prompts.ListFilters, pagination.Params, error) {
	params := pagination.FromQuery(c, 50, 200)

	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return prompts.ListFilters{}, params, err
	}

	return prompts.ListFilters{
		UserEmail:     c.Query("email"),
		CreatedAfter:  from,
		CreatedBefore: to,
		Limit:         params.Limit,
		Offset:        params.Offset,
	}, params, nil
}
