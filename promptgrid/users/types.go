package users

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles user database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents an authenticated user in the system
type User struct {
	ID               string    `json:"id"`
	GoogleID         string    `json:"-"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	AvatarURL        string    `json:"avatar_url"`
	AccountTier      string    `json:"account_tier"`
	DailyCreditsUsed int       `json:"daily_credits_used"`
	CreditsResetDate time.Time `json:"credits_reset_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// filters for the admin user listing
type ListFilters struct {
	Email         string
	Tier          string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}
