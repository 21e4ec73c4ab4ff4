package repository

import (
	"context"
	"testing"
	"time"

	"vpsboard/domain/entities"
	"vpsboard/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVPSRequestRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewVPSRequestRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	id, email, name, avatar := testutil.CreateTestIdentity("alice")
	_, err := accountRepo.Create(ctx, id, email, name, avatar)
	require.NoError(t, err)

	t.Run("missing request returns nil without error", func(t *testing.T) {
		request, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.Nil(t, request)
	})

	t.Run("create persists all fields", func(t *testing.T) {
		request := testutil.CreateTestVPSRequest(id, "4-8-all")

		err := repo.Create(ctx, request)
		require.NoError(t, err)
		assert.False(t, request.CreatedAt.IsZero())

		fetched, err := repo.GetByID(ctx, request.ID)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, request.AccountID, fetched.AccountID)
		assert.Equal(t, "4-8-all", fetched.ConfigKey)
		assert.Equal(t, 4, fetched.CPU)
		assert.Equal(t, 8, fetched.RAMGB)
		assert.Equal(t, int64(100), fetched.PointsPerHour)
		assert.Equal(t, int64(600), fetched.TotalPoints)
		assert.Equal(t, entities.VPSRequestStatusPending, fetched.Status)
		assert.False(t, fetched.Triggered)
		assert.Nil(t, fetched.TriggerAttemptedAt)
	})
}

func TestVPSRequestRepository_GetByAccount(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewVPSRequestRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	id1, email1, name1, avatar1 := testutil.CreateTestIdentity("alice")
	id2, email2, name2, avatar2 := testutil.CreateTestIdentity("bob")
	_, err := accountRepo.Create(ctx, id1, email1, name1, avatar1)
	require.NoError(t, err)
	_, err = accountRepo.Create(ctx, id2, email2, name2, avatar2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, testutil.CreateTestVPSRequest(id1, "2-6-server")))
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, repo.Create(ctx, testutil.CreateTestVPSRequest(id2, "4-4-all")))

	requests, err := repo.GetByAccount(ctx, id1, 10)
	require.NoError(t, err)
	assert.Len(t, requests, 3)
	for _, request := range requests {
		assert.Equal(t, id1, request.AccountID)
	}

	limited, err := repo.GetByAccount(ctx, id1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestVPSRequestRepository_TriggerLifecycle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewVPSRequestRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	id, email, name, avatar := testutil.CreateTestIdentity("carol")
	_, err := accountRepo.Create(ctx, id, email, name, avatar)
	require.NoError(t, err)

	first := testutil.CreateTestVPSRequest(id, "2-4-2012")
	first.OSVersion = "2012"
	require.NoError(t, repo.Create(ctx, first))
	time.Sleep(time.Millisecond)

	second := testutil.CreateTestVPSRequest(id, "4-6-all")
	require.NoError(t, repo.Create(ctx, second))

	t.Run("untriggered returns oldest first", func(t *testing.T) {
		untriggered, err := repo.GetUntriggered(ctx, 10)
		require.NoError(t, err)
		require.Len(t, untriggered, 2)
		assert.Equal(t, first.ID, untriggered[0].ID)
		assert.Equal(t, second.ID, untriggered[1].ID)
	})

	t.Run("marking removes from the untriggered set", func(t *testing.T) {
		err := repo.MarkTriggered(ctx, first.ID, time.Now())
		require.NoError(t, err)

		untriggered, err := repo.GetUntriggered(ctx, 10)
		require.NoError(t, err)
		require.Len(t, untriggered, 1)
		assert.Equal(t, second.ID, untriggered[0].ID)

		fetched, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, fetched.Triggered)
		assert.NotNil(t, fetched.TriggerAttemptedAt)
	})

	t.Run("status update", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, first.ID, entities.VPSRequestStatusTriggered)
		require.NoError(t, err)

		fetched, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.VPSRequestStatusTriggered, fetched.Status)
	})

	t.Run("non-pending requests are never retriggered", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, second.ID, entities.VPSRequestStatusFailed)
		require.NoError(t, err)

		untriggered, err := repo.GetUntriggered(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, untriggered)
	})
}

func TestVPSRequestRepository_UnknownID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewVPSRequestRepository(testDB.DB)
	ctx := context.Background()

	err := repo.MarkTriggered(ctx, "11111111-1111-1111-1111-111111111111", time.Now())
	assert.Error(t, err)

	err = repo.UpdateStatus(ctx, "11111111-1111-1111-1111-111111111111", entities.VPSRequestStatusFailed)
	assert.Error(t, err)
}
