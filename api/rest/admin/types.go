package admin

import (
	"time"

	"codeberg.org/promptgrid/server/api/rest/pagination"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
	"codeberg.org/promptgrid/server/promptgrid/sessions"
	"codeberg.org/promptgrid/server/promptgrid/users"
)

// StatsResponse summarizes platform activity for the dashboard
type StatsResponse struct {
	TotalUsers          int            `json:"total_users"`
	UsersByTier         map[string]int `json:"users_by_tier"`
	TotalPrompts        int            `json:"total_prompts"`
	PromptsToday        int            `json:"prompts_today"`
	CreditsToday        int            `json:"credits_today"`
	ActiveSubscriptions int            `json:"active_subscriptions"`
	AnonymousSessions   int            `json:"anonymous_sessions"`
	EstimatedRevenue    int            `json:"estimated_revenue"`
}

// UsersResponse wraps a page of users
type UsersResponse struct {
	Users      []users.User    `json:"users"`
	Pagination pagination.Meta `json:"pagination"`
}

// PromptsResponse wraps a page of prompts
type PromptsResponse struct {
	Prompts    []prompts.Prompt `json:"prompts"`
	Pagination pagination.Meta  `json:"pagination"`
}

// SessionsResponse wraps a page of anonymous sessions
type SessionsResponse struct {
	Sessions   []sessions.AnonymousSession `json:"sessions"`
	Pagination pagination.Meta             `json:"pagination"`
}

// UpdateTierRequest names the tier to move a user to
type UpdateTierRequest struct {
	Tier string `json:"tier" binding:"required,oneof=free premium pro"`
}

// parses optional from/to date filters from query parameters
func parseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}

	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, nil, err
		}
		// include the whole end day
		t = t.Add(24*time.Hour - time.Nanosecond)
		end = &t
	}

	return start, end, nil
}
