package application

import (
	"context"
	"fmt"
	"time"

	"vpsboard/domain/entities"
	"vpsboard/domain/events"
	"vpsboard/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const triggerBatchSize = 50

// TriggerWorker re-delivers provisioning requests whose trigger message was
// never confirmed. Consumers deduplicate on the request ID, so re-delivery
// is safe; a request is only marked triggered after a successful publish.
type TriggerWorker struct {
	uowFactory UnitOfWorkFactory
	publisher  interfaces.EventPublisher
	interval   time.Duration
}

// NewTriggerWorker creates a new trigger retry worker. The publisher must be
// a direct publisher, not a transactional one: the mark-triggered write only
// happens after the publish is confirmed.
func NewTriggerWorker(uowFactory UnitOfWorkFactory, publisher interfaces.EventPublisher, interval time.Duration) *TriggerWorker {
	return &TriggerWorker{
		uowFactory: uowFactory,
		publisher:  publisher,
		interval:   interval,
	}
}

// Start begins the trigger worker
func (w *TriggerWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Infof("Trigger worker started, scanning every %v", w.interval)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Trigger worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Trigger worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				if err := w.processUntriggered(ctx); err != nil {
					log.Errorf("Error processing untriggered requests: %v", err)
				}
			}
		}
	}()

	// Return cleanup function
	return func() {
		close(stopChan)
	}
}

// processUntriggered republishes every pending request whose trigger was
// never confirmed
func (w *TriggerWorker) processUntriggered(ctx context.Context) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	requests, err := uow.VPSRequestRepository().GetUntriggered(ctx, triggerBatchSize)
	// Read-only transaction
	uow.Rollback()
	if err != nil {
		return fmt.Errorf("failed to list untriggered requests: %w", err)
	}

	if len(requests) == 0 {
		return nil
	}

	var successCount, failureCount int
	for _, request := range requests {
		if err := w.retrigger(ctx, request); err != nil {
			log.WithFields(log.Fields{
				"requestID": request.ID,
				"error":     err,
			}).Error("Failed to re-trigger provisioning request")
			failureCount++
			continue
		}
		successCount++
	}

	log.WithFields(log.Fields{
		"total":      len(requests),
		"successful": successCount,
		"failed":     failureCount,
	}).Info("Completed trigger retry pass")

	return nil
}

func (w *TriggerWorker) retrigger(ctx context.Context, request *entities.VPSRequest) error {
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
	if err := w.publisher.Publish(event); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.VPSRequestRepository().MarkTriggered(ctx, request.ID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark triggered: %w", err)
	}
	return uow.Commit()
}
