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

func TestPointsActivityRepository_Record(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPointsActivityRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	id, email, name, avatar := testutil.CreateTestIdentity("alice")
	_, err := accountRepo.Create(ctx, id, email, name, avatar)
	require.NoError(t, err)

	t.Run("successful record creation", func(t *testing.T) {
		activity := testutil.CreateTestActivity(id, entities.SourceWatchAd)

		err := repo.Record(ctx, activity)
		require.NoError(t, err)
		assert.NotZero(t, activity.ID)
		assert.False(t, activity.CreatedAt.IsZero())
	})

	t.Run("record with metadata", func(t *testing.T) {
		activity := testutil.CreateTestActivityWithAmounts(id, 100, 40, -60, entities.SourceVPSDebit)
		activity.Metadata = map[string]any{
			"request_id": "req-123",
			"config_key": "2-6-server",
			"hours":      1,
		}

		err := repo.Record(ctx, activity)
		require.NoError(t, err)
		assert.NotZero(t, activity.ID)
	})

	t.Run("record with nil metadata", func(t *testing.T) {
		activity := testutil.CreateTestActivity(id, entities.SourceShortLink)
		activity.Amount = 2
		activity.BalanceAfter = activity.BalanceBefore + 2
		activity.Metadata = nil

		err := repo.Record(ctx, activity)
		require.NoError(t, err)
		assert.NotZero(t, activity.ID)
	})

	t.Run("zero amount violates the check constraint", func(t *testing.T) {
		activity := testutil.CreateTestActivityWithAmounts(id, 100, 100, 0, entities.SourceWatchAd)

		err := repo.Record(ctx, activity)
		assert.Error(t, err)
	})

	t.Run("inconsistent balance math violates the check constraint", func(t *testing.T) {
		activity := testutil.CreateTestActivityWithAmounts(id, 100, 120, 5, entities.SourceWatchAd)

		err := repo.Record(ctx, activity)
		assert.Error(t, err)
	})
}

func TestPointsActivityRepository_GetByAccount(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPointsActivityRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	id1, email1, name1, avatar1 := testutil.CreateTestIdentity("alice")
	id2, email2, name2, avatar2 := testutil.CreateTestIdentity("bob")
	_, err := accountRepo.Create(ctx, id1, email1, name1, avatar1)
	require.NoError(t, err)
	_, err = accountRepo.Create(ctx, id2, email2, name2, avatar2)
	require.NoError(t, err)

	t.Run("no activity for account", func(t *testing.T) {
		activities, err := repo.GetByAccount(ctx, id1, 10)
		require.NoError(t, err)
		assert.Empty(t, activities)
	})

	t.Run("returns newest first and isolates accounts", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			activity := testutil.CreateTestActivityWithAmounts(
				id1,
				int64(100+i*5),
				int64(105+i*5),
				5,
				entities.SourceWatchAd,
			)
			err := repo.Record(ctx, activity)
			require.NoError(t, err)

			// Small delay to ensure different timestamps
			time.Sleep(time.Millisecond)
		}

		other := testutil.CreateTestActivity(id2, entities.SourceDailyBonus)
		other.Amount = 10
		other.BalanceAfter = other.BalanceBefore + 10
		err := repo.Record(ctx, other)
		require.NoError(t, err)

		activities, err := repo.GetByAccount(ctx, id1, 10)
		require.NoError(t, err)
		assert.Len(t, activities, 5)

		for i := 1; i < len(activities); i++ {
			assert.True(t, activities[i-1].CreatedAt.After(activities[i].CreatedAt) ||
				activities[i-1].CreatedAt.Equal(activities[i].CreatedAt))
		}
	})

	t.Run("limit results", func(t *testing.T) {
		activities, err := repo.GetByAccount(ctx, id1, 3)
		require.NoError(t, err)
		assert.Len(t, activities, 3)
	})
}

func TestPointsActivityRepository_GetLastBySource(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPointsActivityRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	id, email, name, avatar := testutil.CreateTestIdentity("carol")
	_, err := accountRepo.Create(ctx, id, email, name, avatar)
	require.NoError(t, err)

	t.Run("nil when account has no entries with the source", func(t *testing.T) {
		last, err := repo.GetLastBySource(ctx, id, entities.SourceDailyBonus)
		require.NoError(t, err)
		assert.Nil(t, last)
	})

	t.Run("returns the most recent entry", func(t *testing.T) {
		first := testutil.CreateTestActivityWithAmounts(id, 0, 10, 10, entities.SourceDailyBonus)
		require.NoError(t, repo.Record(ctx, first))
		time.Sleep(time.Millisecond)

		second := testutil.CreateTestActivityWithAmounts(id, 10, 20, 10, entities.SourceDailyBonus)
		require.NoError(t, repo.Record(ctx, second))

		// An unrelated source must not shadow the lookup
		ad := testutil.CreateTestActivityWithAmounts(id, 20, 25, 5, entities.SourceWatchAd)
		require.NoError(t, repo.Record(ctx, ad))

		last, err := repo.GetLastBySource(ctx, id, entities.SourceDailyBonus)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.Equal(t, second.ID, last.ID)
		assert.Equal(t, entities.SourceDailyBonus, last.Source)
	})
}
