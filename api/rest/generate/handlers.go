package generate

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/promptgrid/server/internal/auth"
	"codeberg.org/promptgrid/server/internal/axes"
	"codeberg.org/promptgrid/server/internal/errors"
	"codeberg.org/promptgrid/server/internal/generator"
	"codeberg.org/promptgrid/server/internal/llm"
	"codeberg.org/promptgrid/server/internal/logger"
	"codeberg.org/promptgrid/server/internal/monitoring"
	"codeberg.org/promptgrid/server/internal/quota"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
)

// persists generated grids for later retrieval
type PromptStore interface {
	Save(ctx context.Context, params prompts.SaveParams) (*prompts.Prompt, error)
}

// records request metadata against anonymous sessions
type SessionRegistrar interface {
	Register(ctx context.Context, token, ipAddress, userAgent string) error
}

// AxesHandler godoc
// @Summary List variation axes
// @Description List the selectable variation axes with their two options
// @Tags generate
// @Produce json
// @Success 200 {object} AxesResponse
// @Router /api/v1/axes [get]
func AxesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, AxesResponse{Axes: axes.All()})
	}
}

// GenerateHandler godoc
// @Summary Generate a prompt grid
// @Description Debit one credit and generate a 2x2 grid of prompt variations for the idea along two axes
// @Tags generate
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Generation request"
// @Success 200 {object} GenerateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 504 {object} errors.ErrorResponse
// @Router /api/v1/generate [post]
func GenerateHandler(
	ledger *quota.Ledger,
	dispatcher *generator.Dispatcher,
	promptStore PromptStore,
	sessionRegistrar SessionRegistrar,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			monitoring.RecordGeneration("invalid", time.Since(start))
			errors.BadRequest(c, "invalid request body", err)
			return
		}

		validated, err := dispatcher.Validate(generator.Request{
			Idea:    req.Idea,
			AxisAID: req.AxisA,
			AxisBID: req.AxisB,
		})
		if err != nil {
			monitoring.RecordGeneration("invalid", time.Since(start))
			errors.BadRequest(c, err.Error(), nil)
			return
		}

		token := req.SessionToken
		if token == "" {
			token = c.GetHeader("X-Session-Token")
		}
		identity, token := auth.ResolveIdentity(c, token)

		result, err := dispatcher.Dispatch(c.Request.Context(), validated, identity)
		if err != nil {
			respondDispatchError(c, err, identity, start)
			return
		}

		if !identity.IsAuthenticated() {
			// best effort request metadata, the session row exists after the debit
			if err := sessionRegistrar.Register(c.Request.Context(), token, c.ClientIP(), c.Request.UserAgent()); err != nil {
				logger.Warn("failed to record session metadata", "error", err)
			}
		}

		response := GenerateResponse{
			Result:       result,
			SessionToken: token,
		}

		if req.Save {
			if prompt, err := savePrompt(c, promptStore, identity, token, validated, result); err != nil {
				logger.ErrorErr(err, "failed to save prompt")
			} else {
				response.PromptID = prompt.ID
			}
		}

		if status, err := ledger.CheckAdmission(c.Request.Context(), identity); err == nil {
			response.Credits = status
			monitoring.RecordCreditDebited(string(status.Tier))
		}

		monitoring.RecordUpstreamRequest("ok")
		monitoring.RecordGeneration("ok", time.Since(start))
		c.JSON(http.StatusOK, response)
	}
}

// maps dispatch failures onto the HTTP error contract
func respondDispatchError(c *gin.Context, err error, identity quota.Identity, start time.Time) {
	duration := time.Since(start)

	var quotaErr *quota.QuotaExceededError
	var malformedErr *generator.MalformedResponseError
	var upstreamErr *llm.UpstreamError

	switch {
	case stderrors.As(err, &quotaErr):
		monitoring.RecordGeneration("quota", duration)
		monitoring.RecordCreditDenied(identityKind(identity))
		errors.QuotaExceeded(c, quotaErr.Used, quotaErr.Limit)
	case stderrors.Is(err, quota.ErrAccountNotFound):
		monitoring.RecordGeneration("invalid", duration)
		errors.NotFound(c, "account not found")
	case stderrors.Is(err, generator.ErrUpstreamTimeout):
		monitoring.RecordGeneration("timeout", duration)
		monitoring.RecordUpstreamRequest("timeout")
		errors.GatewayTimeout(c, "generation timed out")
	case stderrors.As(err, &malformedErr):
		monitoring.RecordGeneration("malformed", duration)
		monitoring.RecordUpstreamRequest("malformed")
		errors.BadGateway(c, "provider returned an unusable response", err)
	case stderrors.As(err, &upstreamErr):
		monitoring.RecordGeneration("upstream", duration)
		monitoring.RecordUpstreamRequest("error")
		errors.BadGateway(c, "generation provider failed", err)
	default:
		monitoring.RecordGeneration("error", duration)
		errors.InternalError(c, "generation failed", err)
	}
}

func identityKind(identity quota.Identity) string {
	if identity.IsAuthenticated() {
		return "user"
	}
	return "anonymous"
}

func savePrompt(
	c *gin.Context,
	promptStore PromptStore,
	identity quota.Identity,
	token string,
	validated *generator.ValidatedRequest,
	result *generator.Result,
) (*prompts.Prompt, error) {
	grid, err := json.Marshal(result.Grid)
	if err != nil {
		return nil, err
	}

	params := prompts.SaveParams{
		SeedIdea:    validated.Idea,
		AxisAID:     validated.AxisA.ID,
		AxisBID:     validated.AxisB.ID,
		AxisAName:   validated.AxisA.Name,
		AxisBName:   validated.AxisB.Name,
		Grid:        grid,
		CreditsUsed: 1,
	}

	if identity.IsAuthenticated() {
		userID := identity.AccountID()
		params.UserID = &userID
	} else {
		params.SessionToken = &token
	}

	return promptStore.Save(c.Request.Context(), params)
}
