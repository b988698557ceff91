package sessions

const (
	queryGetOrCreate = `
		INSERT INTO anonymous_sessions (session_token, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (session_token) DO UPDATE SET session_token = EXCLUDED.session_token
		RETURNING credits_used, expires_at
	`

	queryResetCredits = `
		UPDATE anonymous_sessions
		SET credits_used = 0, expires_at = $2
		WHERE session_token = $1
	`

	// conditional increment keeps concurrent debits from exceeding the limit;
	// a successful debit also pushes the expiry window forward
	queryDebitCredit = `
		UPDATE anonymous_sessions
		SET credits_used = credits_used + 1, expires_at = $3
		WHERE session_token = $1 AND credits_used < $2
		RETURNING credits_used
	`

	queryRegisterMetadata = `
		UPDATE anonymous_sessions
		SET ip_address = $2, user_agent = $3
		WHERE session_token = $1
	`

	queryAdminList = `
		SELECT id, session_token, credits_used, COALESCE(ip_address::text, ''), COALESCE(user_agent, ''), expires_at, created_at
		FROM anonymous_sessions
		WHERE (NOT $1 OR expires_at > NOW())
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	queryAdminCount = `
		SELECT COUNT(*)
		FROM anonymous_sessions
		WHERE (NOT $1 OR expires_at > NOW())
	`

	queryDeleteExpired = `
		DELETE FROM anonymous_sessions
		WHERE expires_at < NOW() - INTERVAL '7 days'
	`
)
