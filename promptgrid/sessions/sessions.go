package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/promptgrid/server/internal/quota"
)

// creates a new anonymous session repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// fetches the session row for a token, inserting a fresh one when absent.
// an existing row keeps its stored credits and expiry.
func (r *Repository) GetOrCreate(ctx context.Context, token string, expiresAt time.Time) (*quota.Session, error) {
	var (
		used   int
		expiry time.Time
	)

	err := r.db.QueryRow(ctx, queryGetOrCreate, token, expiresAt).Scan(&used, &expiry)
	if err != nil {
		return nil, err
	}

	return &quota.Session{
		CreditsUsed: used,
		ExpiresAt:   expiry,
	}, nil
}

// zeroes a session's credits and starts a new expiry window
func (r *Repository) ResetCredits(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, queryResetCredits, token, expiresAt)
	return err
}

// consumes one credit if the session is still under the limit.
// returns the new used count and whether the debit took effect.
func (r *Repository) DebitCredit(ctx context.Context, token string, limit int, expiresAt time.Time) (int, bool, error) {
	var used int

	err := r.db.QueryRow(ctx, queryDebitCredit, token, limit, expiresAt).Scan(&used)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return used, true, nil
}

// records request metadata against a session. best effort only.
func (r *Repository) Register(ctx context.Context, token, ipAddress, userAgent string) error {
	_, err := r.db.Exec(ctx, queryRegisterMetadata, token, ipAddress, userAgent)
	return err
}

// lists anonymous sessions for the admin dashboard
func (r *Repository) AdminList(ctx context.Context, f ListFilters) ([]AnonymousSession, error) {
	rows, err := r.db.Query(ctx, queryAdminList, f.ActiveOnly, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]AnonymousSession, 0)
	for rows.Next() {
		var s AnonymousSession
		err := rows.Scan(
			&s.ID,
			&s.Token,
			&s.CreditsUsed,
			&s.IPAddress,
			&s.UserAgent,
			&s.ExpiresAt,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, s)
	}

	return results, rows.Err()
}

// counts anonymous sessions matching the admin listing filters
func (r *Repository) AdminCount(ctx context.Context, f ListFilters) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, queryAdminCount, f.ActiveOnly).Scan(&count)
	return count, err
}

// removes sessions whose expiry window lapsed over a week ago
func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, queryDeleteExpired)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
