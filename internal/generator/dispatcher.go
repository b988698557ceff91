package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeberg.org/promptgrid/server/internal/axes"
	"codeberg.org/promptgrid/server/internal/llm"
	"codeberg.org/promptgrid/server/internal/quota"
)

// bound on the upstream generation call
const defaultUpstreamTimeout = 60 * time.Second

// Debiter is the slice of the quota ledger the dispatcher needs
type Debiter interface {
	Debit(ctx context.Context, id quota.Identity) (*quota.DebitResult, error)
}

// Dispatcher turns a raw client request into a tier-admitted call to the
// generation provider and its response into a contract-safe grid
type Dispatcher struct {
	ledger          Debiter
	generator       llm.GridGenerator
	upstreamTimeout time.Duration
}

// creates a dispatcher over the given ledger and generation provider
func New(ledger Debiter, generator llm.GridGenerator) *Dispatcher {
	return &Dispatcher{
		ledger:          ledger,
		generator:       generator,
		upstreamTimeout: defaultUpstreamTimeout,
	}
}

// Validate resolves a raw request against the axis catalog. It fails
// with *InvalidRequestError when the idea is empty after trimming,
// either axis id is unknown, or both ids reference the same axis.
func (d *Dispatcher) Validate(req Request) (*ValidatedRequest, error) {
	idea := strings.TrimSpace(req.Idea)
	if idea == "" {
		return nil, &InvalidRequestError{Reason: "idea is required"}
	}

	axisA, ok := axes.Lookup(req.AxisAID)
	if !ok {
		return nil, &InvalidRequestError{Reason: fmt.Sprintf("unknown axis %q", req.AxisAID)}
	}

	axisB, ok := axes.Lookup(req.AxisBID)
	if !ok {
		return nil, &InvalidRequestError{Reason: fmt.Sprintf("unknown axis %q", req.AxisBID)}
	}

	if axisA.ID == axisB.ID {
		return nil, &InvalidRequestError{Reason: "axes must differ"}
	}

	return &ValidatedRequest{Idea: idea, AxisA: axisA, AxisB: axisB}, nil
}

// Dispatch debits one credit and calls the generation provider.
//
// The debit happens before the upstream call, so a failed or timed-out
// generation still consumes a credit; quota failures propagate without
// the provider ever being called. The upstream call is bounded by a
// single timeout and its result is shape-validated: anything other than
// a 2x2 grid of non-empty prompts fails with *MalformedResponseError.
func (d *Dispatcher) Dispatch(ctx context.Context, req *ValidatedRequest, id quota.Identity) (*Result, error) {
	if _, err := d.ledger.Debit(ctx, id); err != nil {
		return nil, err
	}

	upstreamCtx, cancel := context.WithTimeout(ctx, d.upstreamTimeout)
	defer cancel()

	payload, err := d.generator.GenerateGrid(upstreamCtx, systemPrompt, buildUserPrompt(req.Idea, req.AxisA, req.AxisB))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrUpstreamTimeout
		}

		return nil, err
	}

	grid, err := parseGrid(payload, req.AxisA, req.AxisB)
	if err != nil {
		return nil, err
	}

	return &Result{
		AxisA: req.AxisA,
		AxisB: req.AxisB,
		Grid:  *grid,
		Model: d.generator.Model(),
	}, nil
}

// parses the upstream payload and validates the grid contract
func parseGrid(payload json.RawMessage, axisA, axisB axes.Axis) (*Grid, error) {
	var parsed gridPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, &MalformedResponseError{Reason: "payload is not valid JSON: " + err.Error()}
	}

	if parsed.Grid == nil {
		return nil, &MalformedResponseError{Reason: "payload has no grid field"}
	}

	if len(parsed.Grid) != 2 {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("grid must contain 2 rows, got %d", len(parsed.Grid))}
	}

	var grid Grid

	for r, row := range parsed.Grid {
		if len(row) != 2 {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("row %d must contain 2 cells, got %d", r, len(row))}
		}

		for c, cell := range row {
			prompt := strings.TrimSpace(cell.Prompt)
			if prompt == "" {
				return nil, &MalformedResponseError{Reason: fmt.Sprintf("cell [%d][%d] has an empty prompt", r, c)}
			}

			grid[r][c] = Cell{
				Title:  formatTitle(cell.Title, axisA.Options[c], axisB.Options[r]),
				Prompt: prompt,
			}
		}
	}

	return &grid, nil
}
