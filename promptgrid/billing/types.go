package billing

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles subscription database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents a Stripe subscription linked to a user
type Subscription struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	StripeSubscriptionID string    `json:"-"`
	StripeCustomerID     string    `json:"-"`
	Tier                 string    `json:"tier"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
