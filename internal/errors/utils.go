package errors

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UUID format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx (36 characters)
var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// error categories for classification
const (
	categoryDatabase = "database"
	categoryNotFound = "not_found"
	categoryTimeout  = "timeout"
	categoryUnknown  = "unknown"
)

// analyzes an error and returns its category and a sanitized message
func classifyError(err error) errorInfo {
	if err == nil {
		return errorInfo{categoryUnknown, ""}
	}

	isProduction := os.Getenv("ENVIRONMENT") == "production"

	// database errors (pgx-specific)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errorInfo{
			category:  categoryDatabase,
			sanitized: ternary(isProduction, "database operation failed", err.Error()),
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errorInfo{
			category:  categoryNotFound,
			sanitized: ternary(isProduction, "resource not found", err.Error()),
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errorInfo{
			category:  categoryTimeout,
			sanitized: ternary(isProduction, "request timed out", err.Error()),
		}
	}

	// fallback to string matching for unknown error types
	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline"):
		return errorInfo{
			category:  categoryTimeout,
			sanitized: ternary(isProduction, "request timed out", err.Error()),
		}
	case strings.Contains(errMsg, "not found") || strings.Contains(errMsg, "no rows"):
		return errorInfo{
			category:  categoryNotFound,
			sanitized: ternary(isProduction, "resource not found", err.Error()),
		}
	case strings.Contains(errMsg, "database") || strings.Contains(errMsg, "sql") || strings.Contains(errMsg, "connection"):
		return errorInfo{
			category:  categoryDatabase,
			sanitized: ternary(isProduction, "database operation failed", err.Error()),
		}
	}

	return errorInfo{
		category:  categoryUnknown,
		sanitized: ternary(isProduction, "an error occurred", err.Error()),
	}
}

// sanitizes error messages for production
func sanitizeError(err error) string {
	return classifyError(err).sanitized
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}

	return b
}

// validates a UUID string format
func IsValidUUID(id string) bool {
	if id == "" {
		return false
	}

	return uuidRegex.MatchString(strings.ToLower(id))
}

// validates a UUID parameter from the request path
func ValidatePathUUID(c *gin.Context, paramName string) (string, bool) {
	id := c.Param(paramName)

	if id == "" {
		BadRequest(c, "missing "+paramName, nil)
		return "", false
	}

	if !IsValidUUID(id) {
		NotFound(c, "resource")
		return "", false
	}

	return id, true
}
