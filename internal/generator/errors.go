package generator

import (
	"errors"
	"fmt"
)

// returned when the bounded upstream call exceeded its deadline
var ErrUpstreamTimeout = errors.New("generation timed out")

// InvalidRequestError is a rejected client request; it never reaches
// quota accounting or the upstream provider
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

// MalformedResponseError is a structurally invalid upstream payload.
// The grid is rejected outright, never reshaped.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed upstream response: %s", e.Reason)
}
