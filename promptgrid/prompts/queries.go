package prompts

const (
	promptColumns = `id, user_id, session_token, seed_idea, axis_a_id, axis_b_id, axis_a_name, axis_b_name, generated_prompts, credits_used, created_at`

	querySave = `
		INSERT INTO prompts (user_id, session_token, seed_idea, axis_a_id, axis_b_id, axis_a_name, axis_b_name, generated_prompts, credits_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + promptColumns + `
	`

	queryFindByID = `
		SELECT ` + promptColumns + `
		FROM prompts
		WHERE id = $1
	`

	queryListByUser = `
		SELECT ` + promptColumns + `
		FROM prompts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	queryCountByUser = `
		SELECT COUNT(*)
		FROM prompts
		WHERE user_id = $1
	`

	queryDelete = `
		DELETE FROM prompts
		WHERE id = $1 AND user_id = $2
	`

	queryUserStats = `
		SELECT COUNT(*), COUNT(DISTINCT created_at::date), COALESCE(SUM(credits_used), 0)
		FROM prompts
		WHERE user_id = $1
	`

	queryAdminList = `
		SELECT p.id, p.user_id, p.session_token, p.seed_idea, p.axis_a_id, p.axis_b_id, p.axis_a_name, p.axis_b_name, p.generated_prompts, p.credits_used, p.created_at
		FROM prompts p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE ($1 = '' OR u.email ILIKE '%' || $1 || '%')
		  AND ($2::timestamptz IS NULL OR p.created_at >= $2)
		  AND ($3::timestamptz IS NULL OR p.created_at <= $3)
		ORDER BY p.created_at DESC
		LIMIT $4 OFFSET $5
	`

	queryAdminCount = `
		SELECT COUNT(*)
		FROM prompts p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE ($1 = '' OR u.email ILIKE '%' || $1 || '%')
		  AND ($2::timestamptz IS NULL OR p.created_at >= $2)
		  AND ($3::timestamptz IS NULL OR p.created_at <= $3)
	`

	queryCountSince = `
		SELECT COUNT(*)
		FROM prompts
		WHERE created_at >= $1
	`
)
