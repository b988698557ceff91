package credits

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

	"codeberg.org/promptgrid/server/internal/quota"
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

func newTestLedger(accounts map[string]*quota.Account) *quota.Ledger {
	return quota.NewLedger(
		&fakeAccountStore{accounts: accounts},
		&fakeSessionStore{sessions: make(map[string]*quota.Session)},
	)
}

func performStatus(t *testing.T, ledger *quota.Ledger, query, userID string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/credits"+query, nil)
	if userID != "" {
		c.Set("user_id", userID)
	}

	StatusHandler(ledger)(c)
	return w
}

func performCheck(t *testing.T, ledger *quota.Ledger, body map[string]any, userID string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/credits/check", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		c.Set("user_id", userID)
	}

	CheckHandler(ledger)(c)
	return w
}

func TestStatusHandlerAuthenticated(t *testing.T) {
	ledger := newTestLedger(map[string]*quota.Account{
		"user-1": {Tier: quota.TierFree, CreditsUsed: 2, ResetDate: time.Now().UTC()},
	})

	w := performStatus(t, ledger, "", "user-1")

	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Used)
	assert.Equal(t, 5, resp.Limit)
	assert.Empty(t, resp.SessionToken)
}

func TestStatusHandlerUnknownAccount(t *testing.T) {
	ledger := newTestLedger(map[string]*quota.Account{})

	w := performStatus(t, ledger, "", "ghost-user")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckHandlerMintsToken(t *testing.T) {
	ledger := newTestLedger(map[string]*quota.Account{})

	w := performCheck(t, ledger, map[string]any{}, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionToken)
	assert.Equal(t, 3, resp.Limit)
	assert.Equal(t, 0, resp.Used)
}

func TestCheckHandlerKeepsClientToken(t *testing.T) {
	ledger := newTestLedger(map[string]*quota.Account{})

	w := performCheck(t, ledger, map[string]any{"sessionToken": "token-abc"}, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "token-abc", resp.SessionToken)
}

func TestCheckHandlerUnknownAccount(t *testing.T) {
	ledger := newTestLedger(map[string]*quota.Account{})

	w := performCheck(t, ledger, map[string]any{}, "ghost-user")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
