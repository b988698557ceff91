package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// in-memory AccountStore for testing
type fakeAccountStore struct {
	accounts map[string]*Account
	resets   int
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]*Account)}
}

func (s *fakeAccountStore) CreditState(_ context.Context, accountID string) (*Account, error) {
	acct, ok := s.accounts[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}

	copied := *acct
	return &copied, nil
}

func (s *fakeAccountStore) ResetCredits(_ context.Context, accountID string, resetDate time.Time) error {
	s.resets++
	s.accounts[accountID].CreditsUsed = 0
	s.accounts[accountID].ResetDate = resetDate
	return nil
}

func (s *fakeAccountStore) DebitCredit(_ context.Context, accountID string, limit int) (int, bool, error) {
	acct := s.accounts[accountID]
	if acct.CreditsUsed >= limit {
		return acct.CreditsUsed, false, nil
	}

	acct.CreditsUsed++
	return acct.CreditsUsed, true, nil
}

// in-memory SessionStore for testing
type fakeSessionStore struct {
	sessions map[string]*Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*Session)}
}

func (s *fakeSessionStore) GetOrCreate(_ context.Context, token string, expiresAt time.Time) (*Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		sess = &Session{CreditsUsed: 0, ExpiresAt: expiresAt}
		s.sessions[token] = sess
	}

	copied := *sess
	return &copied, nil
}

func (s *fakeSessionStore) ResetCredits(_ context.Context, token string, expiresAt time.Time) error {
	s.sessions[token].CreditsUsed = 0
	s.sessions[token].ExpiresAt = expiresAt
	return nil
}

func (s *fakeSessionStore) DebitCredit(_ context.Context, token string, limit int, expiresAt time.Time) (int, bool, error) {
	sess := s.sessions[token]
	if sess.CreditsUsed >= limit {
		return sess.CreditsUsed, false, nil
	}

	sess.CreditsUsed++
	sess.ExpiresAt = expiresAt
	return sess.CreditsUsed, true, nil
}

func newTestLedger(accounts *fakeAccountStore, sessions *fakeSessionStore, now time.Time) *Ledger {
	l := NewLedger(accounts, sessions)
	l.now = func() time.Time { return now }
	return l
}

func TestDailyLimit_KnownTiers(t *testing.T) {
	assert.Equal(t, 3, TierAnonymous.DailyLimit())
	assert.Equal(t, 5, TierFree.DailyLimit())
	assert.Equal(t, 30, TierPremium.DailyLimit())
	assert.Equal(t, 200, TierPro.DailyLimit())
}

func TestDailyLimit_UnknownTierFailsClosed(t *testing.T) {
	assert.Equal(t, 0, Tier("enterprise").DailyLimit())
	assert.Equal(t, 0, Tier("").DailyLimit())
}

func TestCheckAdmission_AccountNotFound(t *testing.T) {
	ledger := newTestLedger(newFakeAccountStore(), newFakeSessionStore(), time.Now())

	_, err := ledger.CheckAdmission(context.Background(), Authenticated("missing"))

	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestCheckAdmission_FreeTier(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	accounts := newFakeAccountStore()
	accounts.accounts["user-1"] = &Account{
		Tier:        TierFree,
		CreditsUsed: 4,
		ResetDate:   utcDate(now),
	}

	ledger := newTestLedger(accounts, newFakeSessionStore(), now)

	status, err := ledger.CheckAdmission(context.Background(), Authenticated("user-1"))

	require.NoError(t, err)
	assert.Equal(t, 4, status.Used)
	assert.Equal(t, 5, status.Limit)
	assert.Equal(t, 1, status.Remaining)
	assert.Equal(t, TierFree, status.Tier)
	assert.True(t, status.CanUse)
}

func TestCheckAdmission_StaleDateResetsBeforeEvaluation(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 30, 0, 0, time.UTC)
	accounts := newFakeAccountStore()
	accounts.accounts["user-1"] = &Account{
		Tier:        TierFree,
		CreditsUsed: 5,
		ResetDate:   utcDate(now.AddDate(0, 0, -1)), // yesterday
	}

	ledger := newTestLedger(accounts, newFakeSessionStore(), now)

	status, err := ledger.CheckAdmission(context.Background(), Authenticated("user-1"))

	require.NoError(t, err)
	assert.Equal(t, 0, status.Used)
	assert.Equal(t, 5, status.Remaining)
	assert.True(t, status.CanUse)
	assert.Equal(t, 1, accounts.resets)
	assert.Equal(t, utcDate(now), accounts.accounts["user-1"].ResetDate)
}

func TestCheckAdmission_FreshDateDoesNotReset(t *testing.T) {
	now := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	accounts := newFakeAccountStore()
	accounts.accounts["user-1"] = &Account{
		Tier:        TierPremium,
		CreditsUsed: 12,
		ResetDate:   utcDate(now),
	}

	ledger := newTestLedger(accounts, newFakeSessionStore(), now)

	status, err := ledger.CheckAdmission(context.Background(), Authenticated("user-1"))

	require.NoError(t, err)
	assert.Equal(t, 12, status.Used)
	assert.Equal(t, 0, accounts.resets)
}

func TestCheckAdmission_UnknownTierCannotUse(t *testing.T) {
	now := time.Now()
	accounts := newFakeAccountStore()
	accounts.accounts["user-1"] = &Account{
		Tier:        Tier("mystery"),
		CreditsUsed: 0,
		ResetDate:   utcDate(now),
	}

	ledger := newTestLedger(accounts, newFakeSessionStore(), now)

	status, err := ledger.CheckAdmission(context.Background(), Authenticated("user-1"))

	require.NoError(t, err)
	assert.Equal(t, 0, status.Limit)
	assert.Equal(t, 0, status.Remaining)
	assert.False(t, status.CanUse)
}

func TestCheckAdmission_NewAnonymousSession(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := newFakeSessionStore()
	ledger := newTestLedger(newFakeAccountStore(), sessions, now)

	status, err := ledger.CheckAdmission(context.Background(), Anonymous("anon-token"))

	require.NoError(t, err)
	assert.Equal(t, 0, status.Used)
	assert.Equal(t, 3, status.Limit)
	assert.Equal(t, 3, status.Remaining)
	assert.Equal(t, TierAnonymous, status.Tier)
	assert.True(t, status.CanUse)

	// counter was created implicitly with a fresh 24h expiry
	sess := sessions.sessions["anon-token"]
	require.NotNil(t, sess)
	assert.Equal(t, now.Add(24*time.Hour), sess.ExpiresAt)
}

func TestCheckAdmission_ExpiredSessionResets(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := newFakeSessionStore()
	sessions.sessions["anon-token"] = &Session{
		CreditsUsed: 3,
		ExpiresAt:   now.Add(-time.Minute),
	}

	ledger := newTestLedger(newFakeAccountStore(), sessions, now)

	status, err := ledger.CheckAdmission(context.Background(), Anonymous("anon-token"))

	require.NoError(t, err)
	assert.Equal(t, 0, status.Used)
	assert.Equal(t, 3, status.Remaining)
	assert.Equal(t, now.Add(24*time.Hour), sessions.sessions["anon-token"].ExpiresAt)
}

func TestCheckAdmission_ExpiryBoundaryIsStale(t *testing.T) {
	// now == expiresAt counts as expired
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := newFakeSessionStore()
	sessions.sessions["anon-token"] = &Session{
		CreditsUsed: 2,
		ExpiresAt:   now,
	}

	ledger := newTestLedger(newFakeAccountStore(), sessions, now)

	status, err := ledger.CheckAdmission(context.Background(), Anonymous("anon-token"))

	require.NoError(t, err)
	assert.Equal(t, 0, status.Used)
}

func TestDebit_Sequence(t *testing.T) {
	// free tier at 4/5: one debit succeeds and exhausts, the next fails
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	accounts := newFakeAccountStore()
	accounts.accounts["user-1"] = &Account{
		Tier:        TierFree,
		CreditsUsed: 4,
		ResetDate:   utcDate(now),
	}

	ledger := newTestLedger(accounts, newFakeSessionStore(), now)
	identity := Authenticated("user-1")

	result, err := ledger.Debit(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Used)
	assert.Equal(t, 0, result.Remaining)

	_, err = ledger.Debit(context.Background(), identity)

	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 5, quotaErr.Used)
	assert.Equal(t, 5, quotaErr.Limit)

	// counter never exceeds the limit
	assert.Equal(t, 5, accounts.accounts["user-1"].CreditsUsed)
}

func TestDebit_StaleCounterResetsFirst(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	accounts := newFakeAccountStore()
	accounts.accounts["user-1"] = &Account{
		Tier:        TierFree,
		CreditsUsed: 5,
		ResetDate:   utcDate(now.AddDate(0, 0, -1)),
	}

	ledger := newTestLedger(accounts, newFakeSessionStore(), now)

	result, err := ledger.Debit(context.Background(), Authenticated("user-1"))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Used)
	assert.Equal(t, 4, result.Remaining)
}

func TestDebit_UnknownTierAlwaysExceeded(t *testing.T) {
	now := time.Now()
	accounts := newFakeAccountStore()
	accounts.accounts["user-1"] = &Account{
		Tier:        Tier(""),
		CreditsUsed: 0,
		ResetDate:   utcDate(now),
	}

	ledger := newTestLedger(accounts, newFakeSessionStore(), now)

	_, err := ledger.Debit(context.Background(), Authenticated("user-1"))

	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 0, quotaErr.Limit)
}

func TestDebit_AnonymousRefreshesExpiry(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := newFakeSessionStore()
	sessions.sessions["anon-token"] = &Session{
		CreditsUsed: 1,
		ExpiresAt:   now.Add(2 * time.Hour),
	}

	ledger := newTestLedger(newFakeAccountStore(), sessions, now)

	result, err := ledger.Debit(context.Background(), Anonymous("anon-token"))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Used)
	assert.Equal(t, 1, result.Remaining)
	assert.Equal(t, now.Add(24*time.Hour), sessions.sessions["anon-token"].ExpiresAt)
}

func TestDebit_AnonymousExhaustion(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := newFakeSessionStore()
	ledger := newTestLedger(newFakeAccountStore(), sessions, now)
	identity := Anonymous("anon-token")

	for i := 1; i <= 3; i++ {
		result, err := ledger.Debit(context.Background(), identity)
		require.NoError(t, err)
		assert.Equal(t, i, result.Used)
	}

	_, err := ledger.Debit(context.Background(), identity)

	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 3, quotaErr.Used)
	assert.Equal(t, 3, quotaErr.Limit)
}

func TestStatus_RemainingNeverNegative(t *testing.T) {
	now := time.Now()
	accounts := newFakeAccountStore()

	// counter over the limit (e.g. after a downgrade from premium to free)
	accounts.accounts["user-1"] = &Account{
		Tier:        TierFree,
		CreditsUsed: 17,
		ResetDate:   utcDate(now),
	}

	ledger := newTestLedger(accounts, newFakeSessionStore(), now)

	status, err := ledger.CheckAdmission(context.Background(), Authenticated("user-1"))

	require.NoError(t, err)
	assert.Equal(t, 0, status.Remaining)
	assert.False(t, status.CanUse)
}
