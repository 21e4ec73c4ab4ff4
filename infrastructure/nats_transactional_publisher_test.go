package infrastructure

import (
	"context"
	"errors"
	"testing"

	"vpsboard/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestNATSTransactionalPublisher_FlushPublishesQueuedEvents(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	firstEvent := events.PointsChangeEvent{
		AccountID:  "account-1",
		OldBalance: 100,
		NewBalance: 105,
		Amount:     5,
	}
	secondEvent := events.ProvisionRequestedEvent{
		RequestID: "request-1",
		AccountID: "account-1",
		ConfigKey: "4-8-all",
		Hours:     6,
	}

	require.NoError(t, transPublisher.Publish(firstEvent))
	require.NoError(t, transPublisher.Publish(secondEvent))

	// Nothing reaches the real publisher before flush
	assert.Len(t, mockPublisher.PublishedEvents, 0)

	err := transPublisher.Flush(context.Background())
	require.NoError(t, err)

	require.Len(t, mockPublisher.PublishedEvents, 2)
	assert.Equal(t, firstEvent, mockPublisher.PublishedEvents[0])
	assert.Equal(t, secondEvent, mockPublisher.PublishedEvents[1])
}

func TestNATSTransactionalPublisher_FlushClearsQueue(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.AccountCreatedEvent{AccountID: "account-1"}))
	require.NoError(t, transPublisher.Flush(context.Background()))
	require.Len(t, mockPublisher.PublishedEvents, 1)

	// A second flush publishes nothing
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 1)
}

func TestNATSTransactionalPublisher_FlushContinuesOnError(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
		PublishError:    errors.New("nats unavailable"),
	}

	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.AccountCreatedEvent{AccountID: "account-1"}))
	require.NoError(t, transPublisher.Publish(events.AccountCreatedEvent{AccountID: "account-2"}))

	// Flush swallows publish errors; the transaction already committed
	err := transPublisher.Flush(context.Background())
	require.NoError(t, err)
	assert.Len(t, mockPublisher.PublishedEvents, 0)
}

func TestNATSTransactionalPublisher_Discard(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.PointsChangeEvent{
		AccountID:  "account-1",
		OldBalance: 50,
		NewBalance: 45,
		Amount:     -5,
	}))

	transPublisher.Discard()

	// Discarded events never reach the real publisher
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 0)
}
