package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/promptgrid/server/internal/generator"
	"codeberg.org/promptgrid/server/internal/quota"
	"codeberg.org/promptgrid/server/promptgrid/prompts"
)

type fakeAccountStore struct {
	accounts map[string]*quota.Account
}

func (s *fakeAccountStore) CreditState(_ context.Context, accountID string) (*quota.Account, error) {
	acct, ok := s.accounts[accountID]
	if !ok {
		return nil, quota.ErrAccountNotFound
	}
	copied := *acct
	return &copied, nil
}

func (s *fakeAccountStore) ResetCredits(_ context.Context, accountID string, resetDate time.Time) error {
	s.accounts[accountID].CreditsUsed = 0
	s.accounts[accountID].ResetDate = resetDate
	return nil
}

func (s *fakeAccountStore) DebitCredit(_ context.Context, accountID string, limit int) (int, bool, error) {
	acct := s.accounts[accountID]
	if acct.CreditsUsed >= limit {
		return 0, false, nil
	}
	acct.CreditsUsed++
	return acct.CreditsUsed, true, nil
}

type fakeSessionStore struct {
	sessions map[string]*quota.Session
}

func (s *fakeSessionStore) GetOrCreate(_ context.Context, token string, expiresAt time.Time) (*quota.Session, error) {
	if sess, ok := s.sessions[token]; ok {
		copied := *sess
		return &copied, nil
	}
	s.sessions[token] = &quota.Session{ExpiresAt: expiresAt}
	return &quota.Session{ExpiresAt: expiresAt}, nil
}

func (s *fakeSessionStore) ResetCredits(_ context.Context, token string, expiresAt time.Time) error {
	s.sessions[token] = &quota.Session{ExpiresAt: expiresAt}
	return nil
}

func (s *fakeSessionStore) DebitCredit(_ context.Context, token string, limit int, expiresAt time.Time) (int, bool, error) {
	sess := s.sessions[token]
	if sess.CreditsUsed >= limit {
		return 0, false, nil
	}
	sess.CreditsUsed++
	sess.ExpiresAt = expiresAt
	return sess.CreditsUsed, true, nil
}

type fakePromptStore struct {
	saved []prompts.SaveParams
	err   error
}

func (s *fakePromptStore) Save(_ context.Context, params prompts.SaveParams) (*prompts.Prompt, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = append(s.saved, params)
	return &prompts.Prompt{ID: "prompt-1"}, nil
}

type fakeRegistrar struct {
	calls int
}

func (r *fakeRegistrar) Register(_ context.Context, _, _, _ string) error {
	r.calls++
	return nil
}

type fakeGenerator struct {
	payload json.RawMessage
	err     error
}

func (g *fakeGenerator) GenerateGrid(_ context.Context, _, _ string) (json.RawMessage, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.payload, nil
}

func (g *fakeGenerator) Model() string { return "test-model" }

func validPayload() json.RawMessage {
	cell := func(title, prompt string) map[string]string {
		return map[string]string{"title": title, "prompt": prompt}
	}
	long := "a detailed cinematic prompt that comfortably exceeds the minimum length requirement for cells"
	payload := map[string]any{
		"grid": [][]map[string]string{
			{cell("one", long), cell("two", long)},
			{cell("three", long), cell("four", long)},
		},
	}
	raw, _ := json.Marshal(payload)
	return raw
}

func newTestHandler(t *testing.T, accounts *fakeAccountStore, gen *fakeGenerator) gin.HandlerFunc {
	t.Helper()
	ledger := quota.NewLedger(accounts, &fakeSessionStore{sessions: make(map[string]*quota.Session)})
	dispatcher := generator.New(ledger, gen)
	return GenerateHandler(ledger, dispatcher, &fakePromptStore{}, &fakeRegistrar{})
}

func performGenerate(t *testing.T, handler gin.HandlerFunc, body map[string]any, userID string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		c.Set("user_id", userID)
	}

	handler(c)
	return w
}

func freeAccount() *fakeAccountStore {
	return &fakeAccountStore{accounts: map[string]*quota.Account{
		"user-1": {Tier: quota.TierFree, CreditsUsed: 0, ResetDate: time.Now().UTC()},
	}}
}

func TestGenerateHandlerSuccess(t *testing.T) {
	handler := newTestHandler(t, freeAccount(), &fakeGenerator{payload: validPayload()})

	w := performGenerate(t, handler, map[string]any{
		"idea":  "a fox in the snow",
		"axisA": "tone",
		"axisB": "length",
	}, "user-1")

	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, "test-model", resp.Result.Model)
	assert.Equal(t, "tone", resp.Result.AxisA.ID)
	assert.NotEmpty(t, resp.Result.Grid[0][0].Prompt)
	require.NotNil(t, resp.Credits)
	assert.Equal(t, 1, resp.Credits.Used)
	assert.Equal(t, 5, resp.Credits.Limit)
	assert.Empty(t, resp.SessionToken)
}

func TestGenerateHandlerAnonymousReturnsToken(t *testing.T) {
	handler := newTestHandler(t, freeAccount(), &fakeGenerator{payload: validPayload()})

	w := performGenerate(t, handler, map[string]any{
		"idea":         "a fox in the snow",
		"axisA":        "tone",
		"axisB":        "length",
		"sessionToken": "token-abc",
	}, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "token-abc", resp.SessionToken)
	require.NotNil(t, resp.Credits)
	assert.Equal(t, 3, resp.Credits.Limit)
}

func TestGenerateHandlerMissingIdea(t *testing.T) {
	handler := newTestHandler(t, freeAccount(), &fakeGenerator{payload: validPayload()})

	w := performGenerate(t, handler, map[string]any{
		"axisA": "tone",
		"axisB": "length",
	}, "user-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateHandlerUnknownAxis(t *testing.T) {
	handler := newTestHandler(t, freeAccount(), &fakeGenerator{payload: validPayload()})

	w := performGenerate(t, handler, map[string]any{
		"idea":  "a fox in the snow",
		"axisA": "tone",
		"axisB": "no-such-axis",
	}, "user-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateHandlerSameAxis(t *testing.T) {
	handler := newTestHandler(t, freeAccount(), &fakeGenerator{payload: validPayload()})

	w := performGenerate(t, handler, map[string]any{
		"idea":  "a fox in the snow",
		"axisA": "tone",
		"axisB": "tone",
	}, "user-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateHandlerQuotaExceeded(t *testing.T) {
	accounts := &fakeAccountStore{accounts: map[string]*quota.Account{
		"user-1": {Tier: quota.TierFree, CreditsUsed: 5, ResetDate: time.Now().UTC()},
	}}
	gen := &fakeGenerator{payload: validPayload()}
	handler := newTestHandler(t, accounts, gen)

	w := performGenerate(t, handler, map[string]any{
		"idea":  "a fox in the snow",
		"axisA": "tone",
		"axisB": "length",
	}, "user-1")

	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp struct {
		Used  int `json:"used"`
		Limit int `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Used)
	assert.Equal(t, 5, resp.Limit)
}

func TestGenerateHandlerUnknownAccount(t *testing.T) {
	handler := newTestHandler(t, &fakeAccountStore{accounts: map[string]*quota.Account{}}, &fakeGenerator{payload: validPayload()})

	w := performGenerate(t, handler, map[string]any{
		"idea":  "a fox in the snow",
		"axisA": "tone",
		"axisB": "length",
	}, "ghost")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateHandlerUpstreamTimeout(t *testing.T) {
	handler := newTestHandler(t, freeAccount(), &fakeGenerator{err: context.DeadlineExceeded})

	w := performGenerate(t, handler, map[string]any{
		"idea":  "a fox in the snow",
		"axisA": "tone",
		"axisB": "length",
	}, "user-1")

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestGenerateHandlerSavesPrompt(t *testing.T) {
	accounts := freeAccount()
	ledger := quota.NewLedger(accounts, &fakeSessionStore{sessions: make(map[string]*quota.Session)})
	dispatcher := generator.New(ledger, &fakeGenerator{payload: validPayload()})
	store := &fakePromptStore{}
	handler := GenerateHandler(ledger, dispatcher, store, &fakeRegistrar{})

	w := performGenerate(t, handler, map[string]any{
		"idea":  "a fox in the snow",
		"axisA": "tone",
		"axisB": "length",
		"save":  true,
	}, "user-1")

	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "prompt-1", resp.PromptID)

	require.Len(t, store.saved, 1)
	saved := store.saved[0]
	require.NotNil(t, saved.UserID)
	assert.Equal(t, "user-1", *saved.UserID)
	assert.Equal(t, "a fox in the snow", saved.SeedIdea)
	assert.Equal(t, "tone", saved.AxisAID)
	assert.Equal(t, "Tone", saved.AxisAName)
	assert.Equal(t, 1, saved.CreditsUsed)
	assert.NotEmpty(t, saved.Grid)
}

func TestGenerateHandlerMalformedGrid(t *testing.T) {
	handler := newTestHandler(t, freeAccount(), &fakeGenerator{payload: json.RawMessage(`{"grid": []}`)})

	w := performGenerate(t, handler, map[string]any{
		"idea":  "a fox in the snow",
		"axisA": "tone",
		"axisB": "length",
	}, "user-1")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
