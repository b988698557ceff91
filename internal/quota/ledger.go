package quota

import (
	"context"
	"fmt"
	"time"
)

// how long an anonymous session counter lives before it rolls over
const SessionExpiryDuration = 24 * time.Hour

// Ledger is the authoritative source of "may this identity generate right
// now" and the only writer of usage counts. All counter state lives in the
// durable stores; the ledger itself holds no mutable state and is safe for
// concurrent use.
type Ledger struct {
	accounts AccountStore
	sessions SessionStore
	now      func() time.Time
}

// creates a new quota ledger over the given stores
func NewLedger(accounts AccountStore, sessions SessionStore) *Ledger {
	return &Ledger{
		accounts: accounts,
		sessions: sessions,
		now:      time.Now,
	}
}

// CheckAdmission reports whether the identity may generate right now.
//
// This is a side-effecting read: a counter whose reset anchor has passed
// (calendar day rollover for accounts, expiry for anonymous sessions) is
// reset to zero as part of the check, and an identity never seen before
// gets a zero counter created implicitly. It fails with ErrAccountNotFound
// only when an authenticated identity has no account record.
func (l *Ledger) CheckAdmission(ctx context.Context, id Identity) (*Status, error) {
	if id.IsAuthenticated() {
		return l.checkAccount(ctx, id.AccountID())
	}

	return l.checkSession(ctx, id.Token())
}

// Debit records one credit of usage. It re-derives staleness exactly as
// CheckAdmission does rather than trusting a prior admission result, and
// fails with *QuotaExceededError when the counter is already at the limit.
// The incremented value is persisted before Debit returns.
func (l *Ledger) Debit(ctx context.Context, id Identity) (*DebitResult, error) {
	if id.IsAuthenticated() {
		return l.debitAccount(ctx, id.AccountID())
	}

	return l.debitSession(ctx, id.Token())
}

func (l *Ledger) checkAccount(ctx context.Context, accountID string) (*Status, error) {
	acct, err := l.freshAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return newStatus(acct.CreditsUsed, acct.Tier.DailyLimit(), acct.Tier), nil
}

func (l *Ledger) checkSession(ctx context.Context, token string) (*Status, error) {
	sess, err := l.freshSession(ctx, token)
	if err != nil {
		return nil, err
	}

	return newStatus(sess.CreditsUsed, TierAnonymous.DailyLimit(), TierAnonymous), nil
}

func (l *Ledger) debitAccount(ctx context.Context, accountID string) (*DebitResult, error) {
	acct, err := l.freshAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	limit := acct.Tier.DailyLimit()
	if acct.CreditsUsed >= limit {
		return nil, &QuotaExceededError{Used: acct.CreditsUsed, Limit: limit}
	}

	used, ok, err := l.accounts.DebitCredit(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to debit credit: %w", err)
	}

	if !ok {
		// lost a race with a concurrent debit that filled the counter
		return nil, &QuotaExceededError{Used: limit, Limit: limit}
	}

	return &DebitResult{Used: used, Remaining: remaining(used, limit)}, nil
}

func (l *Ledger) debitSession(ctx context.Context, token string) (*DebitResult, error) {
	sess, err := l.freshSession(ctx, token)
	if err != nil {
		return nil, err
	}

	limit := TierAnonymous.DailyLimit()
	if sess.CreditsUsed >= limit {
		return nil, &QuotaExceededError{Used: sess.CreditsUsed, Limit: limit}
	}

	used, ok, err := l.sessions.DebitCredit(ctx, token, limit, l.now().Add(SessionExpiryDuration))
	if err != nil {
		return nil, fmt.Errorf("failed to debit credit: %w", err)
	}

	if !ok {
		return nil, &QuotaExceededError{Used: limit, Limit: limit}
	}

	return &DebitResult{Used: used, Remaining: remaining(used, limit)}, nil
}

// loads the account's credit state, resetting the counter first when the
// stored reset date is not today (UTC)
func (l *Ledger) freshAccount(ctx context.Context, accountID string) (*Account, error) {
	acct, err := l.accounts.CreditState(ctx, accountID)
	if err != nil {
		return nil, err
	}

	today := utcDate(l.now())

	if !sameDate(acct.ResetDate, today) {
		if err := l.accounts.ResetCredits(ctx, accountID, today); err != nil {
			return nil, fmt.Errorf("failed to reset credits: %w", err)
		}

		acct.CreditsUsed = 0
		acct.ResetDate = today
	}

	return acct, nil
}

// loads the session's credit state, creating it when the token is new and
// resetting the counter when the expiry has passed
func (l *Ledger) freshSession(ctx context.Context, token string) (*Session, error) {
	now := l.now()

	sess, err := l.sessions.GetOrCreate(ctx, token, now.Add(SessionExpiryDuration))
	if err != nil {
		return nil, err
	}

	if !now.Before(sess.ExpiresAt) {
		expiresAt := now.Add(SessionExpiryDuration)

		if err := l.sessions.ResetCredits(ctx, token, expiresAt); err != nil {
			return nil, fmt.Errorf("failed to reset session credits: %w", err)
		}

		sess.CreditsUsed = 0
		sess.ExpiresAt = expiresAt
	}

	return sess, nil
}

func newStatus(used, limit int, tier Tier) *Status {
	rem := remaining(used, limit)

	return &Status{
		Used:      used,
		Limit:     limit,
		Remaining: rem,
		Tier:      tier,
		CanUse:    rem > 0,
	}
}

func remaining(used, limit int) int {
	if used >= limit {
		return 0
	}

	return limit - used
}

// truncates a time to its UTC calendar date
func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()

	return ay == by && am == bm && ad == bd
}
