package infrastructure

import (
	"fmt"

	"vpsboard/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypePointsChange:
		return "accounts.points_changed"
	case events.EventTypeAccountCreated:
		return "accounts.created"
	case events.EventTypeProvisionRequested:
		return "provisioning.requested"
	case events.EventTypeProvisionStatusChanged:
		return "provisioning.status_changed"
	case events.EventTypeSuspiciousFlag:
		return "accounts.suspicious_flagged"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "accounts.points_changed":
		return events.EventTypePointsChange
	case "accounts.created":
		return events.EventTypeAccountCreated
	case "provisioning.requested":
		return events.EventTypeProvisionRequested
	case "provisioning.status_changed":
		return events.EventTypeProvisionStatusChanged
	case "accounts.suspicious_flagged":
		return events.EventTypeSuspiciousFlag
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects carried by the domain event stream,
// including the status subject published by the workflow runner
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"accounts.points_changed",
		"accounts.created",
		"provisioning.requested",
		"provisioning.status_changed",
		"accounts.suspicious_flagged",
	}
}
