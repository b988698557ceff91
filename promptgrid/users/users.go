package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/promptgrid/server/internal/quota"
)

// creates a new user repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// finds a user by their Google account or creates a new one
func (r *Repository) FindOrCreateByGoogle(
	ctx context.Context,
	googleID, email, name, avatarURL string,
) (*User, error) {
	var user User

	err := r.db.QueryRow(
		ctx,
		queryFindOrCreateByGoogle,
		googleID,
		email,
		name,
		avatarURL,
	).Scan(
		&user.ID,
		&user.GoogleID,
		&user.Email,
		&user.Name,
		&user.AvatarURL,
		&user.AccountTier,
		&user.DailyCreditsUsed,
		&user.CreditsResetDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// finds a user by their ID
func (r *Repository) FindByID(ctx context.Context, userID string) (*User, error) {
	var user User

	err := r.db.QueryRow(ctx, queryFindByID, userID).Scan(
		&user.ID,
		&user.GoogleID,
		&user.Email,
		&user.Name,
		&user.AvatarURL,
		&user.AccountTier,
		&user.DailyCreditsUsed,
		&user.CreditsResetDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// changes a user's account tier
func (r *Repository) UpdateTier(ctx context.Context, userID, tier string) (*User, error) {
	var user User

	err := r.db.QueryRow(ctx, queryUpdateTier, tier, userID).Scan(
		&user.ID,
		&user.GoogleID,
		&user.Email,
		&user.Name,
		&user.AvatarURL,
		&user.AccountTier,
		&user.DailyCreditsUsed,
		&user.CreditsResetDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// updates a user's name and avatar URL
func (r *Repository) UpdateProfile(ctx context.Context, userID, name, avatarURL string) (*User, error) {
	var user User

	err := r.db.QueryRow(ctx, queryUpdateProfile, name, avatarURL, userID).Scan(
		&user.ID,
		&user.GoogleID,
		&user.Email,
		&user.Name,
		&user.AvatarURL,
		&user.AccountTier,
		&user.DailyCreditsUsed,
		&user.CreditsResetDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// sums credits consumed by accounts whose window is today's date
func (r *Repository) CreditsUsedToday(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, queryCreditsUsedToday).Scan(&total)
	return total, err
}

// reads the credit columns for a user
func (r *Repository) CreditState(ctx context.Context, accountID string) (*quota.Account, error) {
	var (
		tier      string
		used      int
		resetDate time.Time
	)

	err := r.db.QueryRow(ctx, queryCreditState, accountID).Scan(&tier, &used, &resetDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, quota.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return &quota.Account{
		Tier:        quota.Tier(tier),
		CreditsUsed: used,
		ResetDate:   resetDate,
	}, nil
}

// zeroes a user's daily credits and stamps the reset date
func (r *Repository) ResetCredits(ctx context.Context, accountID string, resetDate time.Time) error {
	_, err := r.db.Exec(ctx, queryResetCredits, accountID, resetDate)
	return err
}

// consumes one credit if the user is still under the limit.
// returns the new used count and whether the debit took effect.
func (r *Repository) DebitCredit(ctx context.Context, accountID string, limit int) (int, bool, error) {
	var used int

	err := r.db.QueryRow(ctx, queryDebitCredit, accountID, limit).Scan(&used)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return used, true, nil
}

// lists users for the admin dashboard with optional filters
func (r *Repository) AdminList(ctx context.Context, f ListFilters) ([]User, error) {
	rows, err := r.db.Query(
		ctx,
		queryAdminList,
		f.Email,
		f.Tier,
		f.CreatedAfter,
		f.CreatedBefore,
		f.Limit,
		f.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]User, 0)
	for rows.Next() {
		var user User
		err := rows.Scan(
			&user.ID,
			&user.GoogleID,
			&user.Email,
			&user.Name,
			&user.AvatarURL,
			&user.AccountTier,
			&user.DailyCreditsUsed,
			&user.CreditsResetDate,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, user)
	}

	return results, rows.Err()
}

// counts users matching the admin listing filters
func (r *Repository) AdminCount(ctx context.Context, f ListFilters) (int, error) {
	var count int
	err := r.db.QueryRow(
		ctx,
		queryAdminCount,
		f.Email,
		f.Tier,
		f.CreatedAfter,
		f.CreatedBefore,
	).Scan(&count)
	return count, err
}

// returns user counts grouped by account tier
func (r *Repository) CountByTier(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, queryCountByTier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tier string
		var count int
		if err := rows.Scan(&tier, &count); err != nil {
			return nil, err
		}
		counts[tier] = count
	}

	return counts, rows.Err()
}
