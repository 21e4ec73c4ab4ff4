package application

import (
	"context"
	"fmt"
	"time"

	"vpsboard/domain/entities"
	"vpsboard/domain/events"
	"vpsboard/domain/services"
	"vpsboard/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// Identity carries the verified claims of a signed-in user. It is resolved
// per-request from the bearer token; nothing about the current user is held
// in package-level state.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
}

// SessionManager resolves identities to accounts and tracks per-session
// request rate. Accounts are created lazily on first sign-in.
type SessionManager struct {
	uowFactory UnitOfWorkFactory
	rateGuard  *services.RateGuard
	now        func() time.Time
}

// NewSessionManager creates a new session manager
func NewSessionManager(uowFactory UnitOfWorkFactory, rateGuard *services.RateGuard) *SessionManager {
	return &SessionManager{
		uowFactory: uowFactory,
		rateGuard:  rateGuard,
		now:        time.Now,
	}
}

// SignIn resolves the identity to an account, creating it on first sign-in,
// and records the login time
func (m *SessionManager) SignIn(ctx context.Context, identity Identity) (*entities.Account, error) {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	created := false
	if account == nil {
		account, err = uow.AccountRepository().Create(ctx, identity.ID, identity.Email, identity.DisplayName, identity.AvatarURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		created = true

		if err := uow.EventBus().Publish(events.AccountCreatedEvent{
			AccountID:   account.ID,
			Email:       account.Email,
			DisplayName: account.DisplayName,
		}); err != nil {
			log.WithFields(log.Fields{
				"accountID": account.ID,
				"error":     err,
			}).Error("Failed to publish account created event")
		}
	}

	now := m.now()
	if err := uow.AccountRepository().TouchLogin(ctx, account.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	account.LastLoginAt = now

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID": account.ID,
		"created":   created,
	}).Info("Session started")

	return account, nil
}

// SignOut discards the session's rate-guard window
func (m *SessionManager) SignOut(accountID string) {
	m.rateGuard.DiscardSession(accountID)
	log.WithField("accountID", accountID).Info("Session ended")
}

// CheckRate records an action against the session window and, when the
// threshold is exceeded, files a suspicious activity report. The action
// itself is never blocked.
func (m *SessionManager) CheckRate(ctx context.Context, accountID, action string) {
	if !m.rateGuard.RecordAction(accountID, action) {
		return
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"action":    action,
	}).Warn("Session exceeded action rate threshold")
	observability.GetMetrics().RecordRateFlag(action)

	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithField("error", err).Error("Failed to begin transaction for rate report")
		return
	}
	defer uow.Rollback()

	report := &entities.SuspiciousActivity{
		AccountID: accountID,
		Reason:    fmt.Sprintf("action rate exceeded: %s", action),
		CreatedAt: m.now(),
	}
	if err := uow.SuspiciousActivityRepository().Record(ctx, report); err != nil {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"error":     err,
		}).Error("Failed to record suspicious activity")
		return
	}

	if err := uow.EventBus().Publish(events.SuspiciousFlagEvent{
		AccountID: accountID,
		ActionTag: action,
		Count:     m.rateGuard.Count(accountID),
	}); err != nil {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"error":     err,
		}).Error("Failed to publish suspicious flag event")
	}

	if err := uow.Commit(); err != nil {
		log.WithField("error", err).Error("Failed to commit rate report")
	}
}
