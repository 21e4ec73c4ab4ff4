package entities

import (
	"errors"
	"time"
)

// PointsActivity is an immutable, append-only record of one balance change.
// Entries are never updated or deleted.
type PointsActivity struct {
	ID            int64          `db:"id"`
	AccountID     string         `db:"account_id"`
	Amount        int64          `db:"amount"` // Signed delta, never zero
	BalanceBefore int64          `db:"balance_before"`
	BalanceAfter  int64          `db:"balance_after"`
	Source        ActivitySource `db:"source"`
	Metadata      map[string]any `db:"metadata"`
	CreatedAt     time.Time      `db:"created_at"`
}

// IsPositiveChange returns true if the amount is positive
func (pa *PointsActivity) IsPositiveChange() bool {
	return pa.Amount > 0
}

// Validate performs basic consistency checks on the entry
func (pa *PointsActivity) Validate() error {
	if pa.Amount == 0 {
		return errors.New("amount cannot be zero")
	}

	if pa.BalanceAfter != pa.BalanceBefore+pa.Amount {
		return errors.New("balance calculation is inconsistent")
	}

	if pa.Source.IsEarning() && pa.Amount < 0 {
		return errors.New("earning source with negative amount")
	}
	if pa.Source.IsDebit() && pa.Amount > 0 {
		return errors.New("debit source with positive amount")
	}

	return nil
}
