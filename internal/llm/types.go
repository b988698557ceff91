package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// GridGenerator produces the raw structured grid payload for a prompt
// pair. Implementations return the payload bytes exactly as the model
// produced them; shape validation belongs to the caller.
type GridGenerator interface {
	GenerateGrid(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error)
	Model() string
}

// UpstreamError is a non-success response from the generation provider
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request failed with status %d: %s", e.StatusCode, e.Message)
}
