package repository

import (
	"context"
	"fmt"

	"vpsboard/database"
	"vpsboard/domain/entities"
	"vpsboard/infrastructure/observability"
)

// SuspiciousActivityRepository implements the SuspiciousActivityRepository interface
type SuspiciousActivityRepository struct {
	q Queryable
}

// NewSuspiciousActivityRepository creates a new suspicious activity repository
func NewSuspiciousActivityRepository(db *database.DB) *SuspiciousActivityRepository {
	return &SuspiciousActivityRepository{q: db.Pool}
}

// NewSuspiciousActivityRepositoryWithTx creates a new suspicious activity repository with a transaction
func NewSuspiciousActivityRepositoryWithTx(tx Queryable) *SuspiciousActivityRepository {
	return &SuspiciousActivityRepository{q: tx}
}

// Record stores a new suspicious activity report
func (r *SuspiciousActivityRepository) Record(ctx context.Context, report *entities.SuspiciousActivity) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("suspicious_activity", "Record")()
	query := `
		INSERT INTO suspicious_activity (account_id, reason)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, report.AccountID, report.Reason).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record suspicious activity for account %s: %w", report.AccountID, err)
	}

	return nil
}

// GetUnreviewed returns reports awaiting review, oldest first
func (r *SuspiciousActivityRepository) GetUnreviewed(ctx context.Context, limit int) ([]*entities.SuspiciousActivity, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("suspicious_activity", "GetUnreviewed")()
	query := `
		SELECT id, account_id, reason, reviewed, created_at
		FROM suspicious_activity
		WHERE NOT reviewed
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unreviewed suspicious activity: %w", err)
	}
	defer rows.Close()

	var reports []*entities.SuspiciousActivity
	for rows.Next() {
		var report entities.SuspiciousActivity
		err := rows.Scan(
			&report.ID,
			&report.AccountID,
			&report.Reason,
			&report.Reviewed,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suspicious activity: %w", err)
		}
		reports = append(reports, &report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suspicious activity: %w", err)
	}

	return reports, nil
}
