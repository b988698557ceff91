package quota

import (
	"context"
	"time"
)

// Tier is a named quota class with a fixed daily credit limit
type Tier string

const (
	TierAnonymous Tier = "anonymous"
	TierFree      Tier = "free"
	TierPremium   Tier = "premium"
	TierPro       Tier = "pro"
)

// static tier-to-limit table; this is configuration, not computed state
var dailyLimits = map[Tier]int{
	TierAnonymous: 3,
	TierFree:      5,
	TierPremium:   30,
	TierPro:       200,
}

// returns the daily credit limit for the tier.
// Unknown tiers map to 0 so a missing or corrupted tier fails closed.
func (t Tier) DailyLimit() int {
	return dailyLimits[t]
}

// Identity is the authenticated-account-or-anonymous-session abstraction
// against which quota is tracked. It is resolved once per request and
// threaded explicitly; an authenticated request never falls back to
// anonymous accounting even when a session token is also present.
type Identity struct {
	accountID string
	token     string
}

// creates an identity for a signed-in account
func Authenticated(accountID string) Identity {
	return Identity{accountID: accountID}
}

// creates an identity for an anonymous session token
func Anonymous(token string) Identity {
	return Identity{token: token}
}

func (id Identity) IsAuthenticated() bool {
	return id.accountID != ""
}

// returns the account id for authenticated identities, empty otherwise
func (id Identity) AccountID() string {
	return id.accountID
}

// returns the session token for anonymous identities, empty otherwise
func (id Identity) Token() string {
	return id.token
}

// Account holds the credit columns read from the users table
type Account struct {
	Tier        Tier
	CreditsUsed int
	ResetDate   time.Time // calendar date (UTC) of the last day counted
}

// Session holds the credit state of an anonymous session
type Session struct {
	CreditsUsed int
	ExpiresAt   time.Time
}

// AccountStore is the durable store for authenticated credit counters
type AccountStore interface {
	// returns the account's tier and credit state, or ErrAccountNotFound
	CreditState(ctx context.Context, accountID string) (*Account, error)

	// zeroes the counter and records the given reset date
	ResetCredits(ctx context.Context, accountID string, resetDate time.Time) error

	// atomically increments the counter if it is below limit.
	// Returns the new value and whether the increment applied.
	DebitCredit(ctx context.Context, accountID string, limit int) (int, bool, error)
}

// SessionStore is the durable store for anonymous credit counters
type SessionStore interface {
	// returns the session's credit state, creating a zero counter with a
	// fresh expiry when the token has not been seen before
	GetOrCreate(ctx context.Context, token string, expiresAt time.Time) (*Session, error)

	// zeroes the counter and sets a new expiry
	ResetCredits(ctx context.Context, token string, expiresAt time.Time) error

	// atomically increments the counter if it is below limit, refreshing
	// the expiry. Returns the new value and whether the increment applied.
	DebitCredit(ctx context.Context, token string, limit int, expiresAt time.Time) (int, bool, error)
}

// Status is the result of an admission check
type Status struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Tier      Tier `json:"tier"`
	CanUse    bool `json:"canUse"`
}

// DebitResult reports the counter state after a successful debit
type DebitResult struct {
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}
