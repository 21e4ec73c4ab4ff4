package application

import (
	"context"

	"vpsboard/domain/interfaces"
	"vpsboard/domain/testhelpers"
)

// fakeUnitOfWork exposes the shared repository mocks of its factory and
// records the transaction lifecycle
type fakeUnitOfWork struct {
	factory *fakeUnitOfWorkFactory

	began      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.factory.beginErr != nil {
		return u.factory.beginErr
	}
	u.began = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.committed = true
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if !u.committed {
		u.rolledBack = true
	}
	return nil
}

func (u *fakeUnitOfWork) AccountRepository() interfaces.AccountRepository {
	return u.factory.accounts
}

func (u *fakeUnitOfWork) PointsActivityRepository() interfaces.PointsActivityRepository {
	return u.factory.activities
}

func (u *fakeUnitOfWork) VPSRequestRepository() interfaces.VPSRequestRepository {
	return u.factory.requests
}

func (u *fakeUnitOfWork) SuspiciousActivityRepository() interfaces.SuspiciousActivityRepository {
	return u.factory.suspicious
}

func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher {
	return u.factory.publisher
}

// fakeUnitOfWorkFactory hands out fake units of work backed by one shared set
// of repository mocks
type fakeUnitOfWorkFactory struct {
	accounts   *testhelpers.MockAccountRepository
	activities *testhelpers.MockPointsActivityRepository
	requests   *testhelpers.MockVPSRequestRepository
	suspicious *testhelpers.MockSuspiciousActivityRepository
	publisher  *testhelpers.MockEventPublisher

	beginErr error
	created  []*fakeUnitOfWork
}

func newFakeUnitOfWorkFactory() *fakeUnitOfWorkFactory {
	return &fakeUnitOfWorkFactory{
		accounts:   new(testhelpers.MockAccountRepository),
		activities: new(testhelpers.MockPointsActivityRepository),
		requests:   new(testhelpers.MockVPSRequestRepository),
		suspicious: new(testhelpers.MockSuspiciousActivityRepository),
		publisher:  new(testhelpers.MockEventPublisher),
	}
}

func (f *fakeUnitOfWorkFactory) Create() UnitOfWork {
	uow := &fakeUnitOfWork{factory: f}
	f.created = append(f.created, uow)
	return uow
}

func (f *fakeUnitOfWorkFactory) lastUnitOfWork() *fakeUnitOfWork {
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}
