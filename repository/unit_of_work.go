package repository

import (
	"context"
	"fmt"

	"vpsboard/application"
	"vpsboard/database"
	"vpsboard/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	accountRepo            interfaces.AccountRepository
	activityRepo           interfaces.PointsActivityRepository
	vpsRequestRepo         interfaces.VPSRequestRepository
	suspiciousRepo         interfaces.SuspiciousActivityRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db: db,
	}
}

type unitOfWorkFactory struct {
	db *database.DB
}

// Create creates a new UnitOfWork without an event publisher. EventBus panics
// when used; callers that publish events wrap this with the infrastructure
// factory instead.
func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		db: f.db,
	}
}

// CreateWithPublisher creates a new UnitOfWork with a specific transactional publisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories bound to the transaction
	u.accountRepo = NewAccountRepositoryWithTx(tx)
	u.activityRepo = NewPointsActivityRepositoryWithTx(tx)
	u.vpsRequestRepo = NewVPSRequestRepositoryWithTx(tx)
	u.suspiciousRepo = NewSuspiciousActivityRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit. The transaction is
	// already committed, so delivery is best-effort and errors are dropped.
	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// PointsActivityRepository returns the points activity repository for this unit of work
func (u *unitOfWork) PointsActivityRepository() interfaces.PointsActivityRepository {
	if u.activityRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.activityRepo
}

// VPSRequestRepository returns the VPS request repository for this unit of work
func (u *unitOfWork) VPSRequestRepository() interfaces.VPSRequestRepository {
	if u.vpsRequestRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.vpsRequestRepo
}

// SuspiciousActivityRepository returns the suspicious activity repository for this unit of work
func (u *unitOfWork) SuspiciousActivityRepository() interfaces.SuspiciousActivityRepository {
	if u.suspiciousRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.suspiciousRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("no event publisher configured for this unit of work")
	}
	return u.transactionalPublisher
}
