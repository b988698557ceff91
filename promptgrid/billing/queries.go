package billing

const (
	queryUpsertSubscription = `
		INSERT INTO subscriptions (user_id, stripe_subscription_id, stripe_customer_id, tier, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (stripe_subscription_id)
		DO UPDATE SET
			tier = EXCLUDED.tier,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, user_id, stripe_subscription_id, stripe_customer_id, tier, status, created_at, updated_at
	`

	queryUpdateStatus = `
		UPDATE subscriptions
		SET status = $2, updated_at = NOW()
		WHERE stripe_subscription_id = $1
	`

	queryFindByUser = `
		SELECT id, user_id, stripe_subscription_id, stripe_customer_id, tier, status, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	// monthly price points: premium $3, pro $10
	queryActiveStats = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE tier = 'premium') * 3 + COUNT(*) FILTER (WHERE tier = 'pro') * 10
		FROM subscriptions
		WHERE status = 'active'
	`

	queryDowngradeUser = `
		UPDATE users
		SET account_tier = 'free', updated_at = NOW()
		FROM subscriptions s
		WHERE users.id = s.user_id AND s.stripe_subscription_id = $1
	`

	queryResetCreditsBySubscription = `
		UPDATE users
		SET daily_credits_used = 0, credits_reset_date = $2, updated_at = NOW()
		FROM subscriptions s
		WHERE users.id = s.user_id AND s.stripe_subscription_id = $1
	`
)
