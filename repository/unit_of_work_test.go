package repository

import (
	"context"
	"testing"

	"vpsboard/domain/entities"
	"vpsboard/domain/events"
	"vpsboard/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher queues events and records flush/discard calls
type recordingPublisher struct {
	pending   []events.Event
	flushed   []events.Event
	discarded int
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

func (p *recordingPublisher) Flush(ctx context.Context) error {
	p.flushed = append(p.flushed, p.pending...)
	p.pending = nil
	return nil
}

func (p *recordingPublisher) Discard() {
	p.pending = nil
	p.discarded++
}

func TestUnitOfWork_CommitPersistsAndFlushes(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &recordingPublisher{}
	uow := CreateTestUnitOfWork(testDB.DB, publisher)

	require.NoError(t, uow.Begin(ctx))

	id, email, name, avatar := testutil.CreateTestIdentity("alice")
	account, err := uow.AccountRepository().Create(ctx, id, email, name, avatar)
	require.NoError(t, err)

	require.NoError(t, uow.AccountRepository().UpdateBalance(ctx, account.ID, 50, 50))
	require.NoError(t, uow.EventBus().Publish(events.PointsChangeEvent{
		AccountID:  account.ID,
		OldBalance: 0,
		NewBalance: 50,
		Amount:     50,
		Source:     entities.SourceAdminGrant,
	}))

	// Queued, not yet delivered
	assert.Empty(t, publisher.flushed)

	require.NoError(t, uow.Commit())

	assert.Len(t, publisher.flushed, 1)

	fetched, err := NewAccountRepository(testDB.DB).GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, int64(50), fetched.Points)
}

func TestUnitOfWork_RollbackDiscardsWritesAndEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &recordingPublisher{}
	uow := CreateTestUnitOfWork(testDB.DB, publisher)

	require.NoError(t, uow.Begin(ctx))

	id, email, name, avatar := testutil.CreateTestIdentity("bob")
	_, err := uow.AccountRepository().Create(ctx, id, email, name, avatar)
	require.NoError(t, err)

	require.NoError(t, uow.EventBus().Publish(events.AccountCreatedEvent{AccountID: id}))
	require.NoError(t, uow.Rollback())

	assert.Empty(t, publisher.flushed)
	assert.Equal(t, 1, publisher.discarded)

	fetched, err := NewAccountRepository(testDB.DB).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, fetched)
}

func TestUnitOfWork_BeginTwiceFails(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	uow := NewUnitOfWorkFactory(testDB.DB).Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	assert.Error(t, uow.Begin(ctx))
}

func TestUnitOfWork_RollbackWithoutBeginIsNoop(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	uow := NewUnitOfWorkFactory(testDB.DB).Create()
	assert.NoError(t, uow.Rollback())
}
