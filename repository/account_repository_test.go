package repository

import (
	"context"
	"testing"
	"time"

	"vpsboard/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing account returns nil without error", func(t *testing.T) {
		account, err := repo.GetByID(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("create initializes a zero balance", func(t *testing.T) {
		id, email, name, avatar := testutil.CreateTestIdentity("alice")

		account, err := repo.Create(ctx, id, email, name, avatar)
		require.NoError(t, err)
		assert.Equal(t, id, account.ID)
		assert.Equal(t, email, account.Email)
		assert.Equal(t, name, account.DisplayName)
		assert.Equal(t, int64(0), account.Points)
		assert.Equal(t, int64(0), account.LifetimePoints)
		assert.False(t, account.FreeTrialUsed)
		assert.Nil(t, account.FreeTrialStart)
		assert.False(t, account.Banned)
		assert.False(t, account.CreatedAt.IsZero())
	})

	t.Run("get returns the created account", func(t *testing.T) {
		id, email, name, avatar := testutil.CreateTestIdentity("bob")
		_, err := repo.Create(ctx, id, email, name, avatar)
		require.NoError(t, err)

		account, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, email, account.Email)
	})
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	id, email, name, avatar := testutil.CreateTestIdentity("carol")
	_, err := repo.Create(ctx, id, email, name, avatar)
	require.NoError(t, err)

	t.Run("updates both balances", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, id, 150, 200)
		require.NoError(t, err)

		account, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(150), account.Points)
		assert.Equal(t, int64(200), account.LifetimePoints)
	})

	t.Run("unknown account fails", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, "nobody", 10, 10)
		assert.Error(t, err)
	})
}

func TestAccountRepository_MarkTrialStarted(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	id, email, name, avatar := testutil.CreateTestIdentity("dave")
	_, err := repo.Create(ctx, id, email, name, avatar)
	require.NoError(t, err)

	firstStart := time.Now().UTC().Truncate(time.Millisecond)
	err = repo.MarkTrialStarted(ctx, id, firstStart)
	require.NoError(t, err)

	account, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, account.FreeTrialUsed)
	require.NotNil(t, account.FreeTrialStart)
	assert.WithinDuration(t, firstStart, *account.FreeTrialStart, time.Second)

	// A second claim never moves the window
	err = repo.MarkTrialStarted(ctx, id, firstStart.Add(48*time.Hour))
	require.NoError(t, err)

	account, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.WithinDuration(t, firstStart, *account.FreeTrialStart, time.Second)
}

func TestAccountRepository_SetBanned(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	id, email, name, avatar := testutil.CreateTestIdentity("eve")
	_, err := repo.Create(ctx, id, email, name, avatar)
	require.NoError(t, err)

	err = repo.SetBanned(ctx, id, true, "abuse")
	require.NoError(t, err)

	account, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, account.Banned)
	assert.Equal(t, "abuse", account.BanReason)

	err = repo.SetBanned(ctx, id, false, "")
	require.NoError(t, err)

	account, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, account.Banned)
}

func TestAccountRepository_TouchLogin(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	id, email, name, avatar := testutil.CreateTestIdentity("frank")
	_, err := repo.Create(ctx, id, email, name, avatar)
	require.NoError(t, err)

	loginAt := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	err = repo.TouchLogin(ctx, id, loginAt)
	require.NoError(t, err)

	account, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.WithinDuration(t, loginAt, account.LastLoginAt, time.Second)
}

func TestAccountRepository_UpdateDailyStreak(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	id, email, name, avatar := testutil.CreateTestIdentity("grace")
	_, err := repo.Create(ctx, id, email, name, avatar)
	require.NoError(t, err)

	err = repo.UpdateDailyStreak(ctx, id, 4)
	require.NoError(t, err)

	account, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, account.DailyStreak)
}
