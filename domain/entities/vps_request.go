package entities

import (
	"time"
)

// VPSRequestStatus represents the lifecycle state of a provisioning request
type VPSRequestStatus string

const (
	VPSRequestStatusPending   VPSRequestStatus = "pending"
	VPSRequestStatusTriggered VPSRequestStatus = "triggered"
	VPSRequestStatusReady     VPSRequestStatus = "ready"
	VPSRequestStatusFailed    VPSRequestStatus = "failed"
)

// IsTerminal returns true when no further transitions are possible
func (s VPSRequestStatus) IsTerminal() bool {
	return s == VPSRequestStatusReady || s == VPSRequestStatusFailed
}

// CanTransitionTo validates a status transition. Transitions past pending are
// driven by the external provisioning workflow.
func (s VPSRequestStatus) CanTransitionTo(next VPSRequestStatus) bool {
	switch s {
	case VPSRequestStatusPending:
		return next == VPSRequestStatusTriggered || next == VPSRequestStatusFailed
	case VPSRequestStatusTriggered:
		return next == VPSRequestStatusReady || next == VPSRequestStatusFailed
	default:
		return false
	}
}

// VPSRequest is a persisted provisioning request
type VPSRequest struct {
	ID                 string           `db:"id"` // UUID, doubles as the trigger idempotency key
	AccountID          string           `db:"account_id"`
	ConfigKey          string           `db:"config_key"`
	CPU                int              `db:"cpu"`
	RAMGB              int              `db:"ram_gb"`
	OSVersion          string           `db:"os_version"`
	Hours              int              `db:"hours"`
	PointsPerHour      int64            `db:"points_per_hour"`
	TotalPoints        int64            `db:"total_points"`
	Status             VPSRequestStatus `db:"status"`
	FreeTrial          bool             `db:"free_trial"`
	Triggered          bool             `db:"triggered"`
	TriggerAttemptedAt *time.Time       `db:"trigger_attempted_at"`
	CreatedAt          time.Time        `db:"created_at"`
	ExpiresAt          time.Time        `db:"expires_at"`
}

// IsExpired reports whether the requested duration has elapsed
func (r *VPSRequest) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
