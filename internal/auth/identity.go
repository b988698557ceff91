package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"codeberg.org/promptgrid/server/internal/quota"
)

// resolves the calling identity for credit accounting. an authenticated
// user always wins over a session token; anonymous callers get a fresh
// token minted when they did not supply one. the second return value is
// the token the client should keep using, empty for authenticated users.
func ResolveIdentity(c *gin.Context, sessionToken string) (quota.Identity, string) {
	if userID, ok := GetUserID(c); ok {
		return quota.Authenticated(userID), ""
	}

	token := strings.TrimSpace(sessionToken)
	if token == "" {
		token = uuid.NewString()
	}

	return quota.Anonymous(token), token
}
