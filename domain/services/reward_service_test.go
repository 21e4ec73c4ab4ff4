package services

import (
	"context"
	"testing"
	"time"

	"vpsboard/domain/entities"
	"vpsboard/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type rewardFixture struct {
	accountRepo  *testhelpers.MockAccountRepository
	activityRepo *testhelpers.MockPointsActivityRepository
	ledger       *mockLedgerService
	svc          *rewardService
}

func newRewardFixture(now time.Time) *rewardFixture {
	f := &rewardFixture{
		accountRepo:  new(testhelpers.MockAccountRepository),
		activityRepo: new(testhelpers.MockPointsActivityRepository),
		ledger:       new(mockLedgerService),
	}
	f.svc = NewRewardService(f.accountRepo, f.activityRepo, f.ledger).(*rewardService)
	f.svc.now = fixedClock(now)
	return f
}

func TestRewardService_CompleteTask(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("watching an ad pays its fixed reward", func(t *testing.T) {
		f := newRewardFixture(now)
		f.ledger.On("Credit", ctx, "acct-1", int64(5), entities.SourceWatchAd, mock.Anything).
			Return(&entities.PointsActivity{AccountID: "acct-1", Amount: 5}, nil)

		activity, err := f.svc.CompleteTask(ctx, "acct-1", entities.SourceWatchAd)

		require.NoError(t, err)
		assert.Equal(t, int64(5), activity.Amount)
		f.ledger.AssertExpectations(t)
	})

	t.Run("short link pays its fixed reward", func(t *testing.T) {
		f := newRewardFixture(now)
		f.ledger.On("Credit", ctx, "acct-1", int64(2), entities.SourceShortLink, mock.Anything).
			Return(&entities.PointsActivity{AccountID: "acct-1", Amount: 2}, nil)

		_, err := f.svc.CompleteTask(ctx, "acct-1", entities.SourceShortLink)

		require.NoError(t, err)
	})

	t.Run("non-task sources are rejected", func(t *testing.T) {
		f := newRewardFixture(now)

		_, err := f.svc.CompleteTask(ctx, "acct-1", entities.SourceDailyBonus)

		assert.Error(t, err)
		f.ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRewardService_ClaimDailyBonus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("first ever claim starts a streak of one", func(t *testing.T) {
		f := newRewardFixture(now)
		account := &entities.Account{ID: "acct-1", DailyStreak: 0}
		f.accountRepo.On("GetByIDForUpdate", ctx, "acct-1").Return(account, nil)
		f.activityRepo.On("GetLastBySource", ctx, "acct-1", entities.SourceDailyBonus).Return(nil, nil)
		f.ledger.On("Credit", ctx, "acct-1", entities.DailyBonusReward, entities.SourceDailyBonus, mock.Anything).
			Return(&entities.PointsActivity{AccountID: "acct-1", Amount: 10}, nil)
		f.accountRepo.On("UpdateDailyStreak", ctx, "acct-1", 1).Return(nil)

		_, streak, err := f.svc.ClaimDailyBonus(ctx, "acct-1")

		require.NoError(t, err)
		assert.Equal(t, 1, streak)
		f.accountRepo.AssertExpectations(t)
	})

	t.Run("second claim on the same UTC day conflicts", func(t *testing.T) {
		f := newRewardFixture(now)
		account := &entities.Account{ID: "acct-1", DailyStreak: 3}
		last := &entities.PointsActivity{Source: entities.SourceDailyBonus, CreatedAt: now.Add(-2 * time.Hour)}
		f.accountRepo.On("GetByIDForUpdate", ctx, "acct-1").Return(account, nil)
		f.activityRepo.On("GetLastBySource", ctx, "acct-1", entities.SourceDailyBonus).Return(last, nil)

		_, _, err := f.svc.ClaimDailyBonus(ctx, "acct-1")

		assert.ErrorIs(t, err, entities.ErrDailyBonusAlreadyClaimed)
		f.ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("consecutive day extends the streak", func(t *testing.T) {
		f := newRewardFixture(now)
		account := &entities.Account{ID: "acct-1", DailyStreak: 3}
		last := &entities.PointsActivity{Source: entities.SourceDailyBonus, CreatedAt: now.Add(-24 * time.Hour)}
		f.accountRepo.On("GetByIDForUpdate", ctx, "acct-1").Return(account, nil)
		f.activityRepo.On("GetLastBySource", ctx, "acct-1", entities.SourceDailyBonus).Return(last, nil)
		f.ledger.On("Credit", ctx, "acct-1", entities.DailyBonusReward, entities.SourceDailyBonus, mock.MatchedBy(func(md map[string]any) bool {
			return md["streak"] == 4
		})).Return(&entities.PointsActivity{AccountID: "acct-1", Amount: 10}, nil)
		f.accountRepo.On("UpdateDailyStreak", ctx, "acct-1", 4).Return(nil)

		_, streak, err := f.svc.ClaimDailyBonus(ctx, "acct-1")

		require.NoError(t, err)
		assert.Equal(t, 4, streak)
	})

	t.Run("a missed day resets the streak", func(t *testing.T) {
		f := newRewardFixture(now)
		account := &entities.Account{ID: "acct-1", DailyStreak: 9}
		last := &entities.PointsActivity{Source: entities.SourceDailyBonus, CreatedAt: now.Add(-3 * 24 * time.Hour)}
		f.accountRepo.On("GetByIDForUpdate", ctx, "acct-1").Return(account, nil)
		f.activityRepo.On("GetLastBySource", ctx, "acct-1", entities.SourceDailyBonus).Return(last, nil)
		f.ledger.On("Credit", ctx, "acct-1", entities.DailyBonusReward, entities.SourceDailyBonus, mock.Anything).
			Return(&entities.PointsActivity{AccountID: "acct-1", Amount: 10}, nil)
		f.accountRepo.On("UpdateDailyStreak", ctx, "acct-1", 1).Return(nil)

		_, streak, err := f.svc.ClaimDailyBonus(ctx, "acct-1")

		require.NoError(t, err)
		assert.Equal(t, 1, streak)
	})

	t.Run("unknown account", func(t *testing.T) {
		f := newRewardFixture(now)
		f.accountRepo.On("GetByIDForUpdate", ctx, "missing").Return(nil, nil)

		_, _, err := f.svc.ClaimDailyBonus(ctx, "missing")

		assert.ErrorIs(t, err, entities.ErrAccountNotFound)
	})
}
