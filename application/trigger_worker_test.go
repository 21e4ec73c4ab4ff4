package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"vpsboard/domain/entities"
	"vpsboard/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingRequest(id string) *entities.VPSRequest {
	return &entities.VPSRequest{
		ID:            id,
		AccountID:     "subject-1",
		ConfigKey:     "4-8-all",
		CPU:           4,
		RAMGB:         8,
		OSVersion:     "2022",
		Hours:         6,
		PointsPerHour: 100,
		TotalPoints:   600,
		Status:        entities.VPSRequestStatusPending,
	}
}

func TestTriggerWorker_ProcessUntriggered(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing pending publishes nothing", func(t *testing.T) {
		factory := newFakeUnitOfWorkFactory()
		worker := NewTriggerWorker(factory, factory.publisher, time.Second)

		factory.requests.On("GetUntriggered", ctx, triggerBatchSize).Return([]*entities.VPSRequest{}, nil)

		err := worker.processUntriggered(ctx)

		require.NoError(t, err)
		factory.publisher.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("confirmed publish marks the request triggered", func(t *testing.T) {
		factory := newFakeUnitOfWorkFactory()
		worker := NewTriggerWorker(factory, factory.publisher, time.Second)

		request := pendingRequest("req-1")
		factory.requests.On("GetUntriggered", ctx, triggerBatchSize).Return([]*entities.VPSRequest{request}, nil)
		factory.publisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
			event, ok := e.(events.ProvisionRequestedEvent)
			return ok && event.RequestID == "req-1" && event.ConfigKey == "4-8-all" && event.Hours == 6
		})).Return(nil)
		factory.requests.On("MarkTriggered", ctx, "req-1", mock.Anything).Return(nil)

		err := worker.processUntriggered(ctx)

		require.NoError(t, err)
		factory.requests.AssertExpectations(t)
		assert.True(t, factory.lastUnitOfWork().committed)
	})

	t.Run("failed publish leaves the request untriggered", func(t *testing.T) {
		factory := newFakeUnitOfWorkFactory()
		worker := NewTriggerWorker(factory, factory.publisher, time.Second)

		request := pendingRequest("req-1")
		factory.requests.On("GetUntriggered", ctx, triggerBatchSize).Return([]*entities.VPSRequest{request}, nil)
		factory.publisher.On("Publish", mock.Anything).Return(errors.New("no stream"))

		err := worker.processUntriggered(ctx)

		require.NoError(t, err)
		factory.requests.AssertNotCalled(t, "MarkTriggered", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("one failure does not stop the batch", func(t *testing.T) {
		factory := newFakeUnitOfWorkFactory()
		worker := NewTriggerWorker(factory, factory.publisher, time.Second)

		first := pendingRequest("req-1")
		second := pendingRequest("req-2")
		factory.requests.On("GetUntriggered", ctx, triggerBatchSize).Return([]*entities.VPSRequest{first, second}, nil)
		factory.publisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
			event, ok := e.(events.ProvisionRequestedEvent)
			return ok && event.RequestID == "req-1"
		})).Return(errors.New("no stream"))
		factory.publisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
			event, ok := e.(events.ProvisionRequestedEvent)
			return ok && event.RequestID == "req-2"
		})).Return(nil)
		factory.requests.On("MarkTriggered", ctx, "req-2", mock.Anything).Return(nil)

		err := worker.processUntriggered(ctx)

		require.NoError(t, err)
		factory.requests.AssertExpectations(t)
		factory.requests.AssertNotCalled(t, "MarkTriggered", mock.Anything, "req-1", mock.Anything)
	})

	t.Run("listing failure is reported", func(t *testing.T) {
		factory := newFakeUnitOfWorkFactory()
		worker := NewTriggerWorker(factory, factory.publisher, time.Second)

		factory.requests.On("GetUntriggered", ctx, triggerBatchSize).Return(nil, errors.New("connection reset"))

		err := worker.processUntriggered(ctx)

		assert.Error(t, err)
	})
}

func TestTriggerWorker_StartStop(t *testing.T) {
	factory := newFakeUnitOfWorkFactory()
	worker := NewTriggerWorker(factory, factory.publisher, 10*time.Millisecond)

	factory.requests.On("GetUntriggered", mock.Anything, triggerBatchSize).Return([]*entities.VPSRequest{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := worker.Start(ctx)
	time.Sleep(50 * time.Millisecond)
	stop()

	factory.requests.AssertCalled(t, "GetUntriggered", mock.Anything, triggerBatchSize)
}
