package testhelpers

import (
	"context"
	"time"

	"vpsboard/domain/entities"
	"vpsboard/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, id, email, displayName, avatarURL string) (*entities.Account, error) {
	args := m.Called(ctx, id, email, displayName, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, id string, points, lifetimePoints int64) error {
	args := m.Called(ctx, id, points, lifetimePoints)
	return args.Error(0)
}

func (m *MockAccountRepository) MarkTrialStarted(ctx context.Context, id string, startedAt time.Time) error {
	args := m.Called(ctx, id, startedAt)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateDailyStreak(ctx context.Context, id string, streak int) error {
	args := m.Called(ctx, id, streak)
	return args.Error(0)
}

func (m *MockAccountRepository) SetBanned(ctx context.Context, id string, banned bool, reason string) error {
	args := m.Called(ctx, id, banned, reason)
	return args.Error(0)
}

// MockPointsActivityRepository is a mock implementation of PointsActivityRepository
type MockPointsActivityRepository struct {
	mock.Mock
}

func (m *MockPointsActivityRepository) Record(ctx context.Context, activity *entities.PointsActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockPointsActivityRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.PointsActivity, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PointsActivity), args.Error(1)
}

func (m *MockPointsActivityRepository) GetLastBySource(ctx context.Context, accountID string, source entities.ActivitySource) (*entities.PointsActivity, error) {
	args := m.Called(ctx, accountID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PointsActivity), args.Error(1)
}

// MockVPSRequestRepository is a mock implementation of VPSRequestRepository
type MockVPSRequestRepository struct {
	mock.Mock
}

func (m *MockVPSRequestRepository) Create(ctx context.Context, request *entities.VPSRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockVPSRequestRepository) GetByID(ctx context.Context, id string) (*entities.VPSRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VPSRequest), args.Error(1)
}

func (m *MockVPSRequestRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.VPSRequest, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VPSRequest), args.Error(1)
}

func (m *MockVPSRequestRepository) GetUntriggered(ctx context.Context, limit int) ([]*entities.VPSRequest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VPSRequest), args.Error(1)
}

func (m *MockVPSRequestRepository) MarkTriggered(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockVPSRequestRepository) UpdateStatus(ctx context.Context, id string, status entities.VPSRequestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockSuspiciousActivityRepository is a mock implementation of SuspiciousActivityRepository
type MockSuspiciousActivityRepository struct {
	mock.Mock
}

func (m *MockSuspiciousActivityRepository) Record(ctx context.Context, report *entities.SuspiciousActivity) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockSuspiciousActivityRepository) GetUnreviewed(ctx context.Context, limit int) ([]*entities.SuspiciousActivity, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SuspiciousActivity), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
