package ratelimit

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"codeberg.org/promptgrid/server/internal/logger"
)

// builds a gin middleware limiting requests per client IP.
// rate uses the limiter format string, e.g. "30-M" for 30 per minute.
func Middleware(rate string) gin.HandlerFunc {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		logger.FatalErr(err, "invalid rate limit format", "rate", rate)
	}

	store := memory.NewStore()
	return mgin.NewMiddleware(limiter.New(store, parsed))
}
