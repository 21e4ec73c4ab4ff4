package infrastructure

import (
	"vpsboard/application"
	"vpsboard/database"
	"vpsboard/domain/interfaces"
	"vpsboard/repository"
)

// UnitOfWorkFactory implements the application.UnitOfWorkFactory interface
// It creates UnitOfWork instances that handle both database transactions and event publishing
type UnitOfWorkFactory struct {
	repoFactory interface {
		Create() application.UnitOfWork
	}
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	repoFactory := repository.NewUnitOfWorkFactory(db)
	return &UnitOfWorkFactory{
		repoFactory:    repoFactory,
		eventPublisher: eventPublisher,
	}
}

// Create creates a new UnitOfWork with a transactional event publisher
func (f *UnitOfWorkFactory) Create() application.UnitOfWork {
	// Each unit of work gets its own pending event queue
	transactionalPublisher := NewNATSTransactionalPublisher(f.eventPublisher)

	repoUow := f.repoFactory.Create()

	return &unitOfWork{
		inner:                  repoUow,
		transactionalPublisher: transactionalPublisher,
	}
}
