package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"vpsboard/database"
	"vpsboard/domain/entities"
	"vpsboard/infrastructure/observability"

	"github.com/jackc/pgx/v5"
)

// PointsActivityRepository implements the PointsActivityRepository interface
type PointsActivityRepository struct {
	q Queryable
}

// NewPointsActivityRepository creates a new points activity repository
func NewPointsActivityRepository(db *database.DB) *PointsActivityRepository {
	return &PointsActivityRepository{q: db.Pool}
}

// NewPointsActivityRepositoryWithTx creates a new points activity repository with a transaction
func NewPointsActivityRepositoryWithTx(tx Queryable) *PointsActivityRepository {
	return &PointsActivityRepository{q: tx}
}

// Record appends a new activity entry
func (r *PointsActivityRepository) Record(ctx context.Context, activity *entities.PointsActivity) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("points_activity", "Record")()
	metadataJSON, err := json.Marshal(activity.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal activity metadata: %w", err)
	}
	if activity.Metadata == nil {
		metadataJSON = []byte("{}")
	}

	query := `
		INSERT INTO points_activity
		(account_id, amount, balance_before, balance_after, source, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		activity.AccountID,
		activity.Amount,
		activity.BalanceBefore,
		activity.BalanceAfter,
		activity.Source,
		metadataJSON,
	).Scan(&activity.ID, &activity.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record points activity for account %s: %w", activity.AccountID, err)
	}

	return nil
}

// GetByAccount returns recent activity for an account, newest first
func (r *PointsActivityRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.PointsActivity, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("points_activity", "GetByAccount")()
	query := `
		SELECT id, account_id, amount, balance_before, balance_after, source, metadata, created_at
		FROM points_activity
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get points activity for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var activities []*entities.PointsActivity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate points activity: %w", err)
	}

	return activities, nil
}

// GetLastBySource returns the most recent entry with the given source
func (r *PointsActivityRepository) GetLastBySource(ctx context.Context, accountID string, source entities.ActivitySource) (*entities.PointsActivity, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("points_activity", "GetLastBySource")()
	query := `
		SELECT id, account_id, amount, balance_before, balance_after, source, metadata, created_at
		FROM points_activity
		WHERE account_id = $1 AND source = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	rows, err := r.q.Query(ctx, query, accountID, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get last %s activity for account %s: %w", source, accountID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get last %s activity for account %s: %w", source, accountID, err)
		}
		return nil, nil
	}

	return scanActivity(rows)
}

func scanActivity(rows pgx.Rows) (*entities.PointsActivity, error) {
	var activity entities.PointsActivity
	var metadataJSON []byte

	err := rows.Scan(
		&activity.ID,
		&activity.AccountID,
		&activity.Amount,
		&activity.BalanceBefore,
		&activity.BalanceAfter,
		&activity.Source,
		&metadataJSON,
		&activity.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan points activity: %w", err)
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &activity.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal activity metadata: %w", err)
		}
	}

	return &activity, nil
}
