package billing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoSubscription = errors.New("no subscription for user")

// creates a new subscription repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// inserts or refreshes a subscription row keyed by the Stripe subscription ID
func (r *Repository) Upsert(
	ctx context.Context,
	userID, stripeSubscriptionID, stripeCustomerID, tier, status string,
) (*Subscription, error) {
	var sub Subscription

	err := r.db.QueryRow(
		ctx,
		queryUpsertSubscription,
		userID,
		stripeSubscriptionID,
		stripeCustomerID,
		tier,
		status,
	).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.StripeSubscriptionID,
		&sub.StripeCustomerID,
		&sub.Tier,
		&sub.Status,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &sub, nil
}

// records a subscription status change from Stripe
func (r *Repository) UpdateStatus(ctx context.Context, stripeSubscriptionID, status string) error {
	_, err := r.db.Exec(ctx, queryUpdateStatus, stripeSubscriptionID, status)
	return err
}

// finds a user's most recent subscription
func (r *Repository) FindByUser(ctx context.Context, userID string) (*Subscription, error) {
	var sub Subscription

	err := r.db.QueryRow(ctx, queryFindByUser, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.StripeSubscriptionID,
		&sub.StripeCustomerID,
		&sub.Tier,
		&sub.Status,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSubscription
	}
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

// counts active subscriptions and estimates monthly revenue in dollars
func (r *Repository) ActiveStats(ctx context.Context) (count, revenue int, err error) {
	err = r.db.QueryRow(ctx, queryActiveStats).Scan(&count, &revenue)
	return count, revenue, err
}

// drops the subscribed user back to the free tier
func (r *Repository) DowngradeUser(ctx context.Context, stripeSubscriptionID string) error {
	_, err := r.db.Exec(ctx, queryDowngradeUser, stripeSubscriptionID)
	return err
}

// zeroes the subscribed user's daily credits at the start of a paid cycle
func (r *Repository) ResetCreditsBySubscription(ctx context.Context, stripeSubscriptionID string, resetDate time.Time) error {
	_, err := r.db.Exec(ctx, queryResetCreditsBySubscription, stripeSubscriptionID, resetDate)
	return err
}
