package repository

import (
	"context"
	"fmt"
	"time"

	"vpsboard/database"
	"vpsboard/domain/entities"
	"vpsboard/infrastructure/observability"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `
	id, email, display_name, avatar_url, points, lifetime_points,
	free_trial_used, free_trial_started_at, banned, ban_reason,
	daily_streak, last_login_at, created_at, updated_at`

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// NewAccountRepositoryWithTx creates a new account repository with a transaction
func NewAccountRepositoryWithTx(tx Queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.DisplayName,
		&account.AvatarURL,
		&account.Points,
		&account.LifetimePoints,
		&account.FreeTrialUsed,
		&account.FreeTrialStart,
		&account.Banned,
		&account.BanReason,
		&account.DailyStreak,
		&account.LastLoginAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by its identity-provider subject
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("account", "GetByID")()
	query := `SELECT` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	return account, nil
}

// GetByIDForUpdate retrieves an account and locks its row for the duration of
// the enclosing transaction
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*entities.Account, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("account", "GetByIDForUpdate")()
	query := `SELECT` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s for update: %w", id, err)
	}
	return account, nil
}

// Create creates a new account with a zero balance
func (r *AccountRepository) Create(ctx context.Context, id, email, displayName, avatarURL string) (*entities.Account, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("account", "Create")()
	query := `
		INSERT INTO accounts (id, email, display_name, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, id, email, displayName, avatarURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", id, err)
	}
	return account, nil
}

// TouchLogin updates the last login timestamp
func (r *AccountRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("account", "TouchLogin")()
	query := `
		UPDATE accounts
		SET last_login_at = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.q.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to touch login for account %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}

// UpdateBalance sets the current and lifetime point balances atomically
func (r *AccountRepository) UpdateBalance(ctx context.Context, id string, points, lifetimePoints int64) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("account", "UpdateBalance")()
	query := `
		UPDATE accounts
		SET points = $1, lifetime_points = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.q.Exec(ctx, query, points, lifetimePoints, id)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}

// MarkTrialStarted sets the trial flag and start timestamp. The WHERE clause
// keeps the flag one-way: a second claim never moves the window.
func (r *AccountRepository) MarkTrialStarted(ctx context.Context, id string, startedAt time.Time) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("account", "MarkTrialStarted")()
	query := `
		UPDATE accounts
		SET free_trial_used = TRUE, free_trial_started_at = $1, updated_at = NOW()
		WHERE id = $2 AND free_trial_used = FALSE
	`
	if _, err := r.q.Exec(ctx, query, startedAt, id); err != nil {
		return fmt.Errorf("failed to mark trial started for account %s: %w", id, err)
	}
	return nil
}

// UpdateDailyStreak sets the daily login streak counter
func (r *AccountRepository) UpdateDailyStreak(ctx context.Context, id string, streak int) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("account", "UpdateDailyStreak")()
	query := `
		UPDATE accounts
		SET daily_streak = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.q.Exec(ctx, query, streak, id)
	if err != nil {
		return fmt.Errorf("failed to update daily streak for account %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}

// SetBanned sets or clears the banned flag with a reason
func (r *AccountRepository) SetBanned(ctx context.Context, id string, banned bool, reason string) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("account", "SetBanned")()
	query := `
		UPDATE accounts
		SET banned = $1, ban_reason = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.q.Exec(ctx, query, banned, reason, id)
	if err != nil {
		return fmt.Errorf("failed to set banned flag for account %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}
