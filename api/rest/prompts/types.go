package prompts

import (
	"encoding/json"

	"codeberg.org/promptgrid/server/api/rest/pagination"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
)

// SaveRequest stores a previously generated grid for the authenticated user
type SaveRequest struct {
	SeedIdea  string          `json:"seed_idea" binding:"required,max=1000"`
	AxisAID   string          `json:"axis_a_id" binding:"required"`
	AxisBID   string          `json:"axis_b_id" binding:"required"`
	AxisAName string          `json:"axis_a_name" binding:"required"`
	AxisBName string          `json:"axis_b_name" binding:"required"`
	Grid      json.RawMessage `json:"grid" binding:"required"`
}

// ListResponse wraps a page of saved prompts
type ListResponse struct {
	Prompts    []prompts.Prompt `json:"prompts"`
	Pagination pagination.Meta  `json:"pagination"`
}

// MessageResponse for simple success messages
type MessageResponse struct {
	Message string `json:"message"`
}
