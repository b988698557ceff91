package prompts

import (
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles saved prompt database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents a saved generation with its full grid payload
type Prompt struct {
	ID           string          `json:"id"`
	UserID       *string         `json:"user_id,omitempty"`
	SessionToken *string         `json:"-"`
	SeedIdea     string          `json:"seed_idea"`
	AxisAID      string          `json:"axis_a_id"`
	AxisBID      string          `json:"axis_b_id"`
	AxisAName    string          `json:"axis_a_name"`
	AxisBName    string          `json:"axis_b_name"`
	Grid         json.RawMessage `json:"grid"`
	CreditsUsed  int             `json:"credits_used"`
	CreatedAt    time.Time       `json:"created_at"`
}

// contains the fields needed to persist a generation
type SaveParams struct {
	UserID       *string
	SessionToken *string
	SeedIdea     string
	AxisAID      string
	AxisBID      string
	AxisAName    string
	AxisBName    string
	Grid         json.RawMessage
	CreditsUsed  int
}

// filters for the admin prompt listing
type ListFilters struct {
	UserEmail     string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}

// aggregate usage numbers for a single user
type UserStats struct {
	TotalPrompts int `json:"total_prompts"`
	DaysActive   int `json:"days_active"`
	CreditsSpent int `json:"credits_spent"`
}
