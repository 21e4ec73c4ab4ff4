package events

import "vpsboard/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePointsChange           EventType = "points_change"
	EventTypeAccountCreated         EventType = "account_created"
	EventTypeProvisionRequested     EventType = "provision_requested"
	EventTypeProvisionStatusChanged EventType = "provision_status_changed"
	EventTypeSuspiciousFlag         EventType = "suspicious_flag"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PointsChangeEvent represents a points balance change that occurred
type PointsChangeEvent struct {
	AccountID  string
	OldBalance int64
	NewBalance int64
	Source     entities.ActivitySource
	Amount     int64
}

func (e PointsChangeEvent) Type() EventType {
	return EventTypePointsChange
}

// AccountCreatedEvent represents a new account creation on first sign-in
type AccountCreatedEvent struct {
	AccountID   string
	Email       string
	DisplayName string
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// ProvisionRequestedEvent notifies the external workflow that a VPS request
// is ready to be provisioned. RequestID is the idempotency key: the workflow
// must treat repeated deliveries for one RequestID as one request.
type ProvisionRequestedEvent struct {
	RequestID string
	AccountID string
	ConfigKey string
	CPU       int
	RAMGB     int
	OSVersion string
	Hours     int
	FreeTrial bool
}

func (e ProvisionRequestedEvent) Type() EventType {
	return EventTypeProvisionRequested
}

// ProvisionStatusChangedEvent is published by the external workflow runner
// when a provisioning request progresses. Payload field names follow the
// runner's JSON contract.
type ProvisionStatusChangedEvent struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
}

func (e ProvisionStatusChangedEvent) Type() EventType {
	return EventTypeProvisionStatusChanged
}

// SuspiciousFlagEvent represents a rate-guard flag raised for a session
type SuspiciousFlagEvent struct {
	AccountID string
	ActionTag string
	Count     int
}

func (e SuspiciousFlagEvent) Type() EventType {
	return EventTypeSuspiciousFlag
}
