package services

import (
	"context"
	"fmt"
	"time"

	"vpsboard/domain/entities"
	"vpsboard/domain/events"
	"vpsboard/domain/interfaces"
	"vpsboard/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type provisioningService struct {
	accountRepo interfaces.AccountRepository
	requestRepo interfaces.VPSRequestRepository
	ledger      interfaces.LedgerService
	entitlement *EntitlementService
	publisher   interfaces.EventPublisher
	now         func() time.Time
}

// NewProvisioningService creates a new provisioning service. All repositories
// and the ledger must share one unit of work: the request record, the trial
// flag and the debit commit as a single transaction.
func NewProvisioningService(
	accountRepo interfaces.AccountRepository,
	requestRepo interfaces.VPSRequestRepository,
	ledger interfaces.LedgerService,
	entitlement *EntitlementService,
	publisher interfaces.EventPublisher,
) interfaces.ProvisioningService {
	return &provisioningService{
		accountRepo: accountRepo,
		requestRepo: requestRepo,
		ledger:      ledger,
		entitlement: entitlement,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *provisioningService) CreateRequest(ctx context.Context, accountID, configKey, osVersion string, hours int) (*entities.VPSRequest, error) {
	// Validate and price before touching the store: an unrecognized
	// configuration performs zero writes
	quote, err := s.entitlement.QuoteRequest(configKey, osVersion, hours)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	if err := s.entitlement.EvaluateAffordability(account, quote.RequiredPoints); err != nil {
		return nil, err
	}

	now := s.now()
	freeTrial := account.IsTrialEligible(now)

	request := &entities.VPSRequest{
		ID:            uuid.NewString(),
		AccountID:     account.ID,
		ConfigKey:     quote.Config.Key,
		CPU:           quote.Config.CPU,
		RAMGB:         quote.Config.RAMGB,
		OSVersion:     osVersion,
		Hours:         quote.Hours,
		PointsPerHour: quote.Config.PointsPerHour,
		TotalPoints:   quote.RequiredPoints,
		Status:        entities.VPSRequestStatusPending,
		FreeTrial:     freeTrial,
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Duration(quote.Hours) * time.Hour),
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create vps request: %w", err)
	}
	observability.GetMetrics().RecordVPSRequest(request.ConfigKey, freeTrial)

	// First trial claim starts the window; the flag is never reset
	if !account.FreeTrialUsed {
		if err := s.accountRepo.MarkTrialStarted(ctx, account.ID, now); err != nil {
			return nil, fmt.Errorf("failed to mark trial started: %w", err)
		}
	}

	if !freeTrial {
		metadata := map[string]any{
			"request_id": request.ID,
			"config_key": request.ConfigKey,
			"hours":      request.Hours,
		}
		if _, err := s.ledger.Debit(ctx, account.ID, quote.RequiredPoints, entities.SourceVPSDebit, metadata); err != nil {
			return nil, fmt.Errorf("failed to debit account: %w", err)
		}
	}

	// Queued on the transactional publisher; delivered only after the
	// transaction commits. The trigger worker retries undelivered requests.
	event := events.ProvisionRequestedEvent{
		RequestID: request.ID,
		AccountID: request.AccountID,
		ConfigKey: request.ConfigKey,
		CPU:       request.CPU,
		RAMGB:     request.RAMGB,
		OSVersion: request.OSVersion,
		Hours:     request.Hours,
		FreeTrial: request.FreeTrial,
	}
	if err := s.publisher.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"requestID": request.ID,
			"error":     err,
		}).Error("Failed to publish provision requested event")
	}

	return request, nil
}
