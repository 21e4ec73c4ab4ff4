package interfaces

import (
	"context"

	"vpsboard/domain/entities"
)

// LedgerService mutates point balances. Both operations must run inside a
// unit of work so the balance update and the activity append commit together.
type LedgerService interface {
	// Credit increases the current and lifetime balances by amount (> 0)
	// and appends one activity entry tagged source
	Credit(ctx context.Context, accountID string, amount int64, source entities.ActivitySource, metadata map[string]any) (*entities.PointsActivity, error)

	// Debit decreases the current balance by amount (> 0), leaving the
	// lifetime balance untouched. Fails with ErrInsufficientPoints when the
	// balance would go negative.
	Debit(ctx context.Context, accountID string, amount int64, source entities.ActivitySource, metadata map[string]any) (*entities.PointsActivity, error)
}

// ProvisioningService converts accepted entitlement checks into persisted
// VPS requests
type ProvisioningService interface {
	// CreateRequest validates, prices and persists a provisioning request,
	// debiting the account unless it is a free-trial grant
	CreateRequest(ctx context.Context, accountID, configKey, osVersion string, hours int) (*entities.VPSRequest, error)
}

// RewardService credits engagement task rewards
type RewardService interface {
	// CompleteTask credits the fixed reward for a task source
	CompleteTask(ctx context.Context, accountID string, source entities.ActivitySource) (*entities.PointsActivity, error)

	// ClaimDailyBonus credits the daily bonus once per UTC day and returns
	// the updated streak counter
	ClaimDailyBonus(ctx context.Context, accountID string) (*entities.PointsActivity, int, error)
}
