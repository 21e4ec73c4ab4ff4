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

const vpsRequestColumns = `
	id, account_id, config_key, cpu, ram_gb, os_version, hours,
	points_per_hour, total_points, status, free_trial, triggered,
	trigger_attempted_at, created_at, expires_at`

// VPSRequestRepository implements the VPSRequestRepository interface
type VPSRequestRepository struct {
	q Queryable
}

// NewVPSRequestRepository creates a new VPS request repository
func NewVPSRequestRepository(db *database.DB) *VPSRequestRepository {
	return &VPSRequestRepository{q: db.Pool}
}

// NewVPSRequestRepositoryWithTx creates a new VPS request repository with a transaction
func NewVPSRequestRepositoryWithTx(tx Queryable) *VPSRequestRepository {
	return &VPSRequestRepository{q: tx}
}

func scanVPSRequest(row pgx.Row) (*entities.VPSRequest, error) {
	var request entities.VPSRequest
	err := row.Scan(
		&request.ID,
		&request.AccountID,
		&request.ConfigKey,
		&request.CPU,
		&request.RAMGB,
		&request.OSVersion,
		&request.Hours,
		&request.PointsPerHour,
		&request.TotalPoints,
		&request.Status,
		&request.FreeTrial,
		&request.Triggered,
		&request.TriggerAttemptedAt,
		&request.CreatedAt,
		&request.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Create persists a new request
func (r *VPSRequestRepository) Create(ctx context.Context, request *entities.VPSRequest) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("vps_request", "Create")()
	query := `
		INSERT INTO vps_requests
		(id, account_id, config_key, cpu, ram_gb, os_version, hours,
		 points_per_hour, total_points, status, free_trial, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		request.ID,
		request.AccountID,
		request.ConfigKey,
		request.CPU,
		request.RAMGB,
		request.OSVersion,
		request.Hours,
		request.PointsPerHour,
		request.TotalPoints,
		request.Status,
		request.FreeTrial,
		request.ExpiresAt,
	).Scan(&request.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create vps request %s: %w", request.ID, err)
	}

	return nil
}

// GetByID retrieves a request by its UUID
func (r *VPSRequestRepository) GetByID(ctx context.Context, id string) (*entities.VPSRequest, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("vps_request", "GetByID")()
	query := `SELECT` + vpsRequestColumns + ` FROM vps_requests WHERE id = $1`

	request, err := scanVPSRequest(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vps request %s: %w", id, err)
	}
	return request, nil
}

// GetByAccount returns requests for an account, newest first
func (r *VPSRequestRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.VPSRequest, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("vps_request", "GetByAccount")()
	query := `
		SELECT` + vpsRequestColumns + `
		FROM vps_requests
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get vps requests for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var requests []*entities.VPSRequest
	for rows.Next() {
		request, err := scanVPSRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vps request: %w", err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vps requests: %w", err)
	}

	return requests, nil
}

// GetUntriggered returns pending requests whose workflow trigger has not been
// confirmed, oldest first
func (r *VPSRequestRepository) GetUntriggered(ctx context.Context, limit int) ([]*entities.VPSRequest, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("vps_request", "GetUntriggered")()
	query := `
		SELECT` + vpsRequestColumns + `
		FROM vps_requests
		WHERE NOT triggered AND status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, entities.VPSRequestStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get untriggered vps requests: %w", err)
	}
	defer rows.Close()

	var requests []*entities.VPSRequest
	for rows.Next() {
		request, err := scanVPSRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vps request: %w", err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate untriggered vps requests: %w", err)
	}

	return requests, nil
}

// MarkTriggered records a confirmed workflow trigger publication
func (r *VPSRequestRepository) MarkTriggered(ctx context.Context, id string, at time.Time) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("vps_request", "MarkTriggered")()
	query := `
		UPDATE vps_requests
		SET triggered = TRUE, trigger_attempted_at = $1
		WHERE id = $2
	`
	result, err := r.q.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark vps request %s triggered: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("vps request %s not found", id)
	}
	return nil
}

// UpdateStatus transitions a request to a new status
func (r *VPSRequestRepository) UpdateStatus(ctx context.Context, id string, status entities.VPSRequestStatus) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("vps_request", "UpdateStatus")()
	query := `
		UPDATE vps_requests
		SET status = $1
		WHERE id = $2
	`
	result, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for vps request %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("vps request %s not found", id)
	}
	return nil
}
