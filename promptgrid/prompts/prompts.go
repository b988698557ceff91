package prompts

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new prompt repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanPrompt(row pgx.Row) (*Prompt, error) {
	var p Prompt
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.SessionToken,
		&p.SeedIdea,
		&p.AxisAID,
		&p.AxisBID,
		&p.AxisAName,
		&p.AxisBName,
		&p.Grid,
		&p.CreditsUsed,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// persists a generated grid
func (r *Repository) Save(ctx context.Context, params SaveParams) (*Prompt, error) {
	row := r.db.QueryRow(
		ctx,
		querySave,
		params.UserID,
		params.SessionToken,
		params.SeedIdea,
		params.AxisAID,
		params.AxisBID,
		params.AxisAName,
		params.AxisBName,
		params.Grid,
		params.CreditsUsed,
	)
	return scanPrompt(row)
}

// finds a prompt by ID
func (r *Repository) FindByID(ctx context.Context, promptID string) (*Prompt, error) {
	return scanPrompt(r.db.QueryRow(ctx, queryFindByID, promptID))
}

// lists a user's saved prompts, newest first
func (r *Repository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Prompt, error) {
	rows, err := r.db.Query(ctx, queryListByUser, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPrompts(rows)
}

// counts a user's saved prompts
func (r *Repository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, queryCountByUser, userID).Scan(&count)
	return count, err
}

// deletes a prompt owned by the given user
func (r *Repository) Delete(ctx context.Context, promptID, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, queryDelete, promptID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// aggregates a user's generation activity
func (r *Repository) StatsByUser(ctx context.Context, userID string) (*UserStats, error) {
	var stats UserStats
	err := r.db.QueryRow(ctx, queryUserStats, userID).Scan(
		&stats.TotalPrompts,
		&stats.DaysActive,
		&stats.CreditsSpent,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// lists prompts for the admin dashboard with optional filters
func (r *Repository) AdminList(ctx context.Context, f ListFilters) ([]Prompt, error) {
	rows, err := r.db.Query(
		ctx,
		queryAdminList,
		f.UserEmail,
		f.CreatedAfter,
		f.CreatedBefore,
		f.Limit,
		f.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPrompts(rows)
}

// counts prompts matching the admin listing filters
func (r *Repository) AdminCount(ctx context.Context, f ListFilters) (int, error) {
	var count int
	err := r.db.QueryRow(
		ctx,
		queryAdminCount,
		f.UserEmail,
		f.CreatedAfter,
		f.CreatedBefore,
	).Scan(&count)
	return count, err
}

// counts prompts created at or after the given time
func (r *Repository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, queryCountSince, since).Scan(&count)
	return count, err
}

func collectPrompts(rows pgx.Rows) ([]Prompt, error) {
	results := make([]Prompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *p)
	}
	return results, rows.Err()
}
