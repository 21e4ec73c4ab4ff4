package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"vpsboard/application"
	"vpsboard/domain/entities"
	"vpsboard/domain/events"

	log "github.com/sirupsen/logrus"
)

const provisionStatusSubject = "provisioning.status_changed"

// ProvisionStatusConsumer applies status updates published by the external
// workflow runner to stored VPS requests. Deliveries are at-least-once, so
// stale or duplicate updates are acknowledged and dropped rather than
// redelivered.
type ProvisionStatusConsumer struct {
	natsClient *NATSClient
	uowFactory application.UnitOfWorkFactory
}

// NewProvisionStatusConsumer creates a new provision status consumer
func NewProvisionStatusConsumer(natsClient *NATSClient, uowFactory application.UnitOfWorkFactory) *ProvisionStatusConsumer {
	return &ProvisionStatusConsumer{
		natsClient: natsClient,
		uowFactory: uowFactory,
	}
}

// Start subscribes to the status subject with a durable consumer
func (c *ProvisionStatusConsumer) Start() error {
	return c.natsClient.Subscribe(provisionStatusSubject, c.handleMessage)
}

// handleMessage decodes one envelope and applies the status transition.
// Returning an error NAKs the message for redelivery; unknown requests and
// invalid transitions are logged and acknowledged.
func (c *ProvisionStatusConsumer) handleMessage(data []byte) error {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	if envelope.EventType != string(events.EventTypeProvisionStatusChanged) {
		log.WithField("eventType", envelope.EventType).Warn("Ignoring unexpected event type on status subject")
		return nil
	}

	var event events.ProvisionStatusChangedEvent
	if err := json.Unmarshal(envelope.Payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal status payload: %w", err)
	}
	if event.RequestID == "" {
		return fmt.Errorf("status event has no request id")
	}

	ctx := context.Background()
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := uow.VPSRequestRepository().GetByID(ctx, event.RequestID)
	if err != nil {
		return fmt.Errorf("failed to get vps request: %w", err)
	}
	if request == nil {
		log.WithField("requestID", event.RequestID).Warn("Status update for unknown vps request")
		return nil
	}

	newStatus := entities.VPSRequestStatus(event.Status)
	if !request.Status.CanTransitionTo(newStatus) {
		log.WithFields(log.Fields{
			"requestID": event.RequestID,
			"from":      request.Status,
			"to":        event.Status,
		}).Warn("Dropping invalid vps request status transition")
		return nil
	}

	if err := uow.VPSRequestRepository().UpdateStatus(ctx, request.ID, newStatus); err != nil {
		return fmt.Errorf("failed to update vps request status: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}

	log.WithFields(log.Fields{
		"requestID": request.ID,
		"from":      request.Status,
		"to":        newStatus,
		"detail":    event.Detail,
	}).Info("Applied vps request status update")

	return nil
}
