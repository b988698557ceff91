package sessions

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles anonymous session database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents an anonymous browser session with its credit usage
type AnonymousSession struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	CreditsUsed int       `json:"credits_used"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// filters for the admin session listing
type ListFilters struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}
