package generator

import (
	"codeberg.org/promptgrid/server/internal/axes"
)

// Request is a raw generation request as received from a client
type Request struct {
	Idea    string
	AxisAID string
	AxisBID string
}

// ValidatedRequest is a request whose idea has been trimmed and whose
// axis references have been resolved against the catalog
type ValidatedRequest struct {
	Idea  string
	AxisA axes.Axis
	AxisB axes.Axis
}

// Cell is one generated prompt variant
type Cell struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// Grid is the 2x2 matrix of generated prompts. Cell [r][c] pairs axis
// A's option c (column) with axis B's option r (row).
type Grid [2][2]Cell

// Result is a completed generation
type Result struct {
	AxisA axes.Axis `json:"axisA"`
	AxisB axes.Axis `json:"axisB"`
	Grid  Grid      `json:"grid"`
	Model string    `json:"model"`
}

// wire shape of the upstream grid payload
type gridPayload struct {
	Grid [][]cellPayload `json:"grid"`
}

type cellPayload struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}
