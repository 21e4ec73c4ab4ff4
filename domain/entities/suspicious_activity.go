package entities

import "time"

// SuspiciousActivity records a rate-guard flag for later review. Advisory
// only: recording one never blocks the flagged action.
type SuspiciousActivity struct {
	ID        int64     `db:"id"`
	AccountID string    `db:"account_id"`
	Reason    string    `db:"reason"`
	Reviewed  bool      `db:"reviewed"`
	CreatedAt time.Time `db:"created_at"`
}
