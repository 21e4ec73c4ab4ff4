package infrastructure

import (
	"context"

	"vpsboard/application"
	"vpsboard/domain/interfaces"
)

// unitOfWork wraps the repository UnitOfWork and adds event publishing on commit
type unitOfWork struct {
	inner                  application.UnitOfWork
	transactionalPublisher *NATSTransactionalPublisher
	ctx                    context.Context
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	u.ctx = ctx
	return u.inner.Begin(ctx)
}

// Commit commits the transaction and flushes events on success
func (u *unitOfWork) Commit() error {
	// First commit the database transaction
	if err := u.inner.Commit(); err != nil {
		return err
	}

	// Then flush pending events after successful commit
	if u.transactionalPublisher != nil {
		// Note: We don't return errors from event publishing since the database
		// transaction has already committed. Events are best-effort after commit.
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	// Discard pending events
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	// Then rollback the database transaction
	return u.inner.Rollback()
}

// Repository getters - delegate to inner UnitOfWork
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	return u.inner.AccountRepository()
}

func (u *unitOfWork) PointsActivityRepository() interfaces.PointsActivityRepository {
	return u.inner.PointsActivityRepository()
}

func (u *unitOfWork) VPSRequestRepository() interfaces.VPSRequestRepository {
	return u.inner.VPSRequestRepository()
}

func (u *unitOfWork) SuspiciousActivityRepository() interfaces.SuspiciousActivityRepository {
	return u.inner.SuspiciousActivityRepository()
}

// EventBus returns the transactional event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("transactional publisher not configured")
	}
	return u.transactionalPublisher
}
