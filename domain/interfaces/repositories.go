package interfaces

import (
	"context"
	"time"

	"vpsboard/domain/entities"
	"vpsboard/domain/events"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by its identity-provider subject.
	// Returns nil without error when the account does not exist.
	GetByID(ctx context.Context, id string) (*entities.Account, error)

	// GetByIDForUpdate retrieves an account and locks its row for the
	// duration of the enclosing transaction
	GetByIDForUpdate(ctx context.Context, id string) (*entities.Account, error)

	// Create creates a new account with a zero balance
	Create(ctx context.Context, id, email, displayName, avatarURL string) (*entities.Account, error)

	// TouchLogin updates the last login timestamp
	TouchLogin(ctx context.Context, id string, at time.Time) error

	// UpdateBalance sets the current and lifetime point balances
	UpdateBalance(ctx context.Context, id string, points, lifetimePoints int64) error

	// MarkTrialStarted sets free_trial_used and the trial start timestamp.
	// The flag is one-way: implementations must never clear it.
	MarkTrialStarted(ctx context.Context, id string, startedAt time.Time) error

	// UpdateDailyStreak sets the daily login streak counter
	UpdateDailyStreak(ctx context.Context, id string, streak int) error

	// SetBanned sets or clears the banned flag with a reason
	SetBanned(ctx context.Context, id string, banned bool, reason string) error
}

// PointsActivityRepository defines the interface for the append-only activity log
type PointsActivityRepository interface {
	// Record appends a new activity entry
	Record(ctx context.Context, activity *entities.PointsActivity) error

	// GetByAccount returns recent activity for an account, newest first
	GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.PointsActivity, error)

	// GetLastBySource returns the most recent entry with the given source,
	// nil when the account has none
	GetLastBySource(ctx context.Context, accountID string, source entities.ActivitySource) (*entities.PointsActivity, error)
}

// VPSRequestRepository defines the interface for VPS request data access
type VPSRequestRepository interface {
	// Create persists a new request
	Create(ctx context.Context, request *entities.VPSRequest) error

	// GetByID retrieves a request by its UUID, nil when missing
	GetByID(ctx context.Context, id string) (*entities.VPSRequest, error)

	// GetByAccount returns requests for an account, newest first
	GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.VPSRequest, error)

	// GetUntriggered returns pending requests whose workflow trigger has not
	// been confirmed, oldest first
	GetUntriggered(ctx context.Context, limit int) ([]*entities.VPSRequest, error)

	// MarkTriggered records a confirmed workflow trigger publication
	MarkTriggered(ctx context.Context, id string, at time.Time) error

	// UpdateStatus transitions a request to a new status
	UpdateStatus(ctx context.Context, id string, status entities.VPSRequestStatus) error
}

// SuspiciousActivityRepository defines the interface for rate-guard flag records
type SuspiciousActivityRepository interface {
	// Record stores a new suspicious activity report
	Record(ctx context.Context, report *entities.SuspiciousActivity) error

	// GetUnreviewed returns reports awaiting review, oldest first
	GetUnreviewed(ctx context.Context, limit int) ([]*entities.SuspiciousActivity, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher queues events until the enclosing database
// transaction resolves: Flush after commit, Discard after rollback
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}
