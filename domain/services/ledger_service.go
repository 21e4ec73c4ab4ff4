package services

import (
	"context"
	"fmt"
	"time"

	"vpsboard/domain/entities"
	"vpsboard/domain/events"
	"vpsboard/domain/interfaces"
	"vpsboard/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	accountRepo  interfaces.AccountRepository
	activityRepo interfaces.PointsActivityRepository
	publisher    interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service. The repositories must be
// scoped to one unit of work: the balance update and the activity append are
// a single logical mutation and must commit or fail together.
func NewLedgerService(accountRepo interfaces.AccountRepository, activityRepo interfaces.PointsActivityRepository, publisher interfaces.EventPublisher) interfaces.LedgerService {
	return &ledgerService{
		accountRepo:  accountRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
	}
}

func (s *ledgerService) Credit(ctx context.Context, accountID string, amount int64, source entities.ActivitySource, metadata map[string]any) (*entities.PointsActivity, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}
	if account.Banned {
		return nil, entities.ErrAccountBanned
	}

	newBalance := account.Points + amount
	newLifetime := account.LifetimePoints + amount
	if err := s.accountRepo.UpdateBalance(ctx, accountID, newBalance, newLifetime); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	return s.record(ctx, account, amount, newBalance, source, metadata)
}

func (s *ledgerService) Debit(ctx context.Context, accountID string, amount int64, source entities.ActivitySource, metadata map[string]any) (*entities.PointsActivity, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}
	if account.Banned {
		return nil, entities.ErrAccountBanned
	}
	if !account.CanAfford(amount) {
		return nil, entities.ErrInsufficientPoints
	}

	// Lifetime points only ever grow; debits leave them untouched
	newBalance := account.Points - amount
	if err := s.accountRepo.UpdateBalance(ctx, accountID, newBalance, account.LifetimePoints); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	return s.record(ctx, account, -amount, newBalance, source, metadata)
}

// record appends the activity entry and emits the points change event.
// This is the single entry point for all balance changes in the system.
func (s *ledgerService) record(ctx context.Context, account *entities.Account, amount, newBalance int64, source entities.ActivitySource, metadata map[string]any) (*entities.PointsActivity, error) {
	activity := &entities.PointsActivity{
		AccountID:     account.ID,
		Amount:        amount,
		BalanceBefore: account.Points,
		BalanceAfter:  newBalance,
		Source:        source,
		Metadata:      metadata,
		CreatedAt:     time.Now(),
	}
	if err := activity.Validate(); err != nil {
		return nil, fmt.Errorf("invalid activity entry: %w", err)
	}
	if err := s.activityRepo.Record(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to record points activity: %w", err)
	}

	transactionType := observability.TransactionTypeCredit
	if amount < 0 {
		transactionType = observability.TransactionTypeDebit
	}
	observability.GetMetrics().RecordPointsTransaction(transactionType, source.String())

	event := events.PointsChangeEvent{
		AccountID:  account.ID,
		OldBalance: account.Points,
		NewBalance: newBalance,
		Source:     source,
		Amount:     amount,
	}
	if err := s.publisher.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"accountID": account.ID,
			"source":    source,
			"error":     err,
		}).Error("Failed to publish points change event")
	}

	return activity, nil
}
