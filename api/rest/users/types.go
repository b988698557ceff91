package users

import (
	"time"

	"codeberg.org/promptgrid/server/promptgrid/prompts"
)

// UpdateProfileRequest updates the authenticated user's profile
type UpdateProfileRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

// StatsResponse reports a user's account standing and activity
type StatsResponse struct {
	Tier         string             `json:"tier"`
	CreditsUsed  int                `json:"credits_used"`
	CreditsLimit int                `json:"credits_limit"`
	MemberSince  time.Time          `json:"member_since"`
	Activity     *prompts.UserStats `json:"activity"`
}
