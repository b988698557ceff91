package generator

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"codeberg.org/promptgrid/server/internal/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// implements Debiter for testing
type mockLedger struct {
	debitFunc func(ctx context.Context, id quota.Identity) (*quota.DebitResult, error)
	calls     int
}

func (m *mockLedger) Debit(ctx context.Context, id quota.Identity) (*quota.DebitResult, error) {
	m.calls++

	if m.debitFunc != nil {
		return m.debitFunc(ctx, id)
	}

	return &quota.DebitResult{Used: 1, Remaining: 4}, nil
}

// implements llm.GridGenerator for testing
type mockGenerator struct {
	generateFunc func(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error)
	calls        int
}

func (m *mockGenerator) GenerateGrid(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error) {
	m.calls++

	if m.generateFunc != nil {
		return m.generateFunc(ctx, systemPrompt, userPrompt)
	}

	return validPayload(), nil
}

func (m *mockGenerator) Model() string {
	return "mock-model"
}

func validPayload() json.RawMessage {
	payload := gridPayload{
		Grid: [][]cellPayload{
			{
				{Title: "Quiet Studio Echo", Prompt: "10-second video. A quiet studio scene."},
				{Title: "Loud Studio Echo", Prompt: "10-second video. A loud studio scene."},
			},
			{
				{Title: "Quiet Street Rush", Prompt: "10-second video. A quiet street scene."},
				{Title: "Loud Street Rush", Prompt: "10-second video. A loud street scene."},
			},
		},
	}

	raw, _ := json.Marshal(payload) //nolint:errcheck // static fixture
	return raw
}

func validRequest(t *testing.T) *ValidatedRequest {
	t.Helper()

	d := New(&mockLedger{}, &mockGenerator{})

	req, err := d.Validate(Request{Idea: "a cat discovers rain", AxisAID: "tone", AxisBID: "length"})
	require.NoError(t, err)

	return req
}

func TestValidate_TrimsIdea(t *testing.T) {
	d := New(&mockLedger{}, &mockGenerator{})

	req, err := d.Validate(Request{Idea: "  a cat discovers rain  ", AxisAID: "tone", AxisBID: "length"})

	require.NoError(t, err)
	assert.Equal(t, "a cat discovers rain", req.Idea)
	assert.Equal(t, "tone", req.AxisA.ID)
	assert.Equal(t, "length", req.AxisB.ID)
}

func TestValidate_EmptyIdea(t *testing.T) {
	d := New(&mockLedger{}, &mockGenerator{})

	_, err := d.Validate(Request{Idea: "   ", AxisAID: "tone", AxisBID: "length"})

	var invalidErr *InvalidRequestError
	require.ErrorAs(t, err, &invalidErr)
	assert.Contains(t, invalidErr.Reason, "idea")
}

func TestValidate_UnknownAxis(t *testing.T) {
	d := New(&mockLedger{}, &mockGenerator{})

	_, err := d.Validate(Request{Idea: "idea", AxisAID: "aspect_ratio", AxisBID: "length"})
	var invalidErr *InvalidRequestError
	assert.ErrorAs(t, err, &invalidErr)

	_, err = d.Validate(Request{Idea: "idea", AxisAID: "length", AxisBID: "nope"})
	assert.ErrorAs(t, err, &invalidErr)
}

func TestValidate_SameAxisRejected(t *testing.T) {
	d := New(&mockLedger{}, &mockGenerator{})

	_, err := d.Validate(Request{Idea: "idea", AxisAID: "length", AxisBID: "length"})

	var invalidErr *InvalidRequestError
	require.ErrorAs(t, err, &invalidErr)
	assert.Contains(t, invalidErr.Reason, "differ")
}

func TestDispatch_Success(t *testing.T) {
	ledger := &mockLedger{}
	gen := &mockGenerator{}
	d := New(ledger, gen)

	result, err := d.Dispatch(context.Background(), validRequest(t), quota.Authenticated("user-1"))

	require.NoError(t, err)
	assert.Equal(t, 1, ledger.calls)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "tone", result.AxisA.ID)
	assert.Equal(t, "mock-model", result.Model)

	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			assert.NotEmpty(t, result.Grid[r][c].Prompt, "cell [%d][%d]", r, c)
			assert.NotEmpty(t, result.Grid[r][c].Title, "cell [%d][%d]", r, c)
		}
	}
}

func TestDispatch_QuotaExceededSkipsUpstream(t *testing.T) {
	ledger := &mockLedger{
		debitFunc: func(_ context.Context, _ quota.Identity) (*quota.DebitResult, error) {
			return nil, &quota.QuotaExceededError{Used: 5, Limit: 5}
		},
	}
	gen := &mockGenerator{}
	d := New(ledger, gen)

	_, err := d.Dispatch(context.Background(), validRequest(t), quota.Authenticated("user-1"))

	var quotaErr *quota.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 0, gen.calls, "upstream must not be called when quota is exceeded")
}

func TestDispatch_DebitPrecedesUpstream(t *testing.T) {
	// a failed generation still consumes the credit
	ledger := &mockLedger{}
	gen := &mockGenerator{
		generateFunc: func(_ context.Context, _, _ string) (json.RawMessage, error) {
			return nil, context.DeadlineExceeded
		},
	}
	d := New(ledger, gen)

	_, err := d.Dispatch(context.Background(), validRequest(t), quota.Anonymous("tok"))

	assert.ErrorIs(t, err, ErrUpstreamTimeout)
	assert.Equal(t, 1, ledger.calls)
}

func TestDispatch_UpstreamContextBounded(t *testing.T) {
	gen := &mockGenerator{
		generateFunc: func(ctx context.Context, _, _ string) (json.RawMessage, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok, "upstream context must carry a deadline")
			assert.LessOrEqual(t, time.Until(deadline), defaultUpstreamTimeout)
			return validPayload(), nil
		},
	}
	d := New(&mockLedger{}, gen)

	_, err := d.Dispatch(context.Background(), validRequest(t), quota.Authenticated("user-1"))

	require.NoError(t, err)
}

func TestDispatch_PromptEmbedsAxesAndIdea(t *testing.T) {
	gen := &mockGenerator{
		generateFunc: func(_ context.Context, systemPrompt, userPrompt string) (json.RawMessage, error) {
			assert.Contains(t, systemPrompt, "10-second video")
			assert.Contains(t, userPrompt, "a cat discovers rain")
			assert.Contains(t, userPrompt, "Axis A (Tone)")
			assert.Contains(t, userPrompt, "Axis B (Length)")
			assert.Contains(t, userPrompt, "column 0 = serious")
			assert.Contains(t, userPrompt, "row 1 = longer prompt")
			return validPayload(), nil
		},
	}
	d := New(&mockLedger{}, gen)

	_, err := d.Dispatch(context.Background(), validRequest(t), quota.Authenticated("user-1"))

	require.NoError(t, err)
}

func TestDispatch_MalformedShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `not json at all`},
		{"missing grid", `{"cells": []}`},
		{"one row", `{"grid": [[{"title": "t", "prompt": "p"}, {"title": "t", "prompt": "p"}]]}`},
		{"three rows", `{"grid": [[{"title":"t","prompt":"p"},{"title":"t","prompt":"p"}],[{"title":"t","prompt":"p"},{"title":"t","prompt":"p"}],[{"title":"t","prompt":"p"},{"title":"t","prompt":"p"}]]}`},
		{"short row", `{"grid": [[{"title":"t","prompt":"p"}],[{"title":"t","prompt":"p"},{"title":"t","prompt":"p"}]]}`},
		{"blank prompt", `{"grid": [[{"title":"t","prompt":"   "},{"title":"t","prompt":"p"}],[{"title":"t","prompt":"p"},{"title":"t","prompt":"p"}]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{
				generateFunc: func(_ context.Context, _, _ string) (json.RawMessage, error) {
					return json.RawMessage(tt.payload), nil
				},
			}
			d := New(&mockLedger{}, gen)

			_, err := d.Dispatch(context.Background(), validRequest(t), quota.Authenticated("user-1"))

			var malformedErr *MalformedResponseError
			assert.ErrorAs(t, err, &malformedErr, "payload %q must be rejected, not reshaped", tt.name)
		})
	}
}

func TestDispatch_SynthesizesMissingTitles(t *testing.T) {
	gen := &mockGenerator{
		generateFunc: func(_ context.Context, _, _ string) (json.RawMessage, error) {
			return json.RawMessage(`{"grid": [
				[{"title": "", "prompt": "p00"}, {"title": "  ", "prompt": "p01"}],
				[{"title": "Kept Title", "prompt": "p10"}, {"title": "", "prompt": "p11"}]
			]}`), nil
		},
	}
	d := New(&mockLedger{}, gen)

	result, err := d.Dispatch(context.Background(), validRequest(t), quota.Authenticated("user-1"))

	require.NoError(t, err)

	// tone options are the columns, length options the rows
	assert.Equal(t, "serious x shorter prompt", result.Grid[0][0].Title)
	assert.Equal(t, "playful x shorter prompt", result.Grid[0][1].Title)
	assert.Equal(t, "Kept Title", result.Grid[1][0].Title)
	assert.Equal(t, "playful x longer prompt", result.Grid[1][1].Title)
}

func TestFormatTitle_Truncation(t *testing.T) {
	long := strings.Repeat("a", 100)

	got := formatTitle(long, "x", "y")

	assert.Len(t, got, 80)
	assert.Equal(t, strings.Repeat("a", 77)+"...", got)
}

func TestFormatTitle_ExactLimitKept(t *testing.T) {
	exact := strings.Repeat("b", 80)

	assert.Equal(t, exact, formatTitle(exact, "x", "y"))
}

func TestFormatTitle_MultibyteUnderLimitKept(t *testing.T) {
	// 45 characters but 90 bytes, the ceiling counts characters
	title := strings.Repeat("é", 45)

	assert.Equal(t, title, formatTitle(title, "x", "y"))
}

func TestFormatTitle_MultibyteTruncatedOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 100)

	got := formatTitle(long, "x", "y")

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 77)+"...", got)
	assert.Equal(t, 80, utf8.RuneCountInString(got))
}
