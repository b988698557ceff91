package generate

import (
	"codeberg.org/promptgrid/server/internal/axes"
	"codeberg.org/promptgrid/server/internal/generator"
	"codeberg.org/promptgrid/server/internal/quota"
)

// GenerateRequest is the client payload for a grid generation
type GenerateRequest struct {
	Idea         string `json:"idea" binding:"required"`
	AxisA        string `json:"axisA" binding:"required"`
	AxisB        string `json:"axisB" binding:"required"`
	SessionToken string `json:"sessionToken"`
	Save         bool   `json:"save"`
}

// GenerateResponse carries the generated grid plus the caller's
// remaining credits and, for anonymous callers, the session token to
// keep using
type GenerateResponse struct {
	Result       *generator.Result `json:"result"`
	Credits      *quota.Status     `json:"credits,omitempty"`
	SessionToken string            `json:"session_token,omitempty"`
	PromptID     string            `json:"prompt_id,omitempty"`
}

// AxesResponse lists the selectable variation axes
type AxesResponse struct {
	Axes []axes.Axis `json:"axes"`
}
