package users

const (
	queryFindOrCreateByGoogle = `
		INSERT INTO users (google_id, email, name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (google_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING id, google_id, email, name, avatar_url, account_tier, daily_credits_used, credits_reset_date, created_at, updated_at
	`

	queryFindByID = `
		SELECT id, google_id, email, name, avatar_url, account_tier, daily_credits_used, credits_reset_date, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	queryUpdateTier = `
		UPDATE users
		SET account_tier = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, google_id, email, name, avatar_url, account_tier, daily_credits_used, credits_reset_date, created_at, updated_at
	`

	queryCreditState = `
		SELECT account_tier, daily_credits_used, credits_reset_date
		FROM users
		WHERE id = $1
	`

	queryResetCredits = `
		UPDATE users
		SET daily_credits_used = 0, credits_reset_date = $2, updated_at = NOW()
		WHERE id = $1
	`

	// conditional increment keeps concurrent debits from exceeding the limit
	queryDebitCredit = `
		UPDATE users
		SET daily_credits_used = daily_credits_used + 1, updated_at = NOW()
		WHERE id = $1 AND daily_credits_used < $2
		RETURNING daily_credits_used
	`

	queryAdminList = `
		SELECT id, google_id, email, name, avatar_url, account_tier, daily_credits_used, credits_reset_date, created_at, updated_at
		FROM users
		WHERE ($1 = '' OR email ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR account_tier = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`

	queryAdminCount = `
		SELECT COUNT(*)
		FROM users
		WHERE ($1 = '' OR email ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR account_tier = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at <= $4)
	`

	queryUpdateProfile = `
		UPDATE users
		SET name = $1, avatar_url = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, google_id, email, name, avatar_url, account_tier, daily_credits_used, credits_reset_date, created_at, updated_at
	`

	queryCreditsUsedToday = `
		SELECT COALESCE(SUM(daily_credits_used), 0)
		FROM users
		WHERE credits_reset_date = CURRENT_DATE
	`

	queryCountByTier = `
		SELECT account_tier, COUNT(*)
		FROM users
		GROUP BY account_tier
	`
)
