package services

import (
	"context"
	"fmt"
	"time"

	"vpsboard/domain/entities"
	"vpsboard/domain/interfaces"
)

type rewardService struct {
	accountRepo  interfaces.AccountRepository
	activityRepo interfaces.PointsActivityRepository
	ledger       interfaces.LedgerService
	now          func() time.Time
}

// NewRewardService creates a new reward service
func NewRewardService(accountRepo interfaces.AccountRepository, activityRepo interfaces.PointsActivityRepository, ledger interfaces.LedgerService) interfaces.RewardService {
	return &rewardService{
		accountRepo:  accountRepo,
		activityRepo: activityRepo,
		ledger:       ledger,
		now:          time.Now,
	}
}

func (s *rewardService) CompleteTask(ctx context.Context, accountID string, source entities.ActivitySource) (*entities.PointsActivity, error) {
	if !source.IsTask() {
		return nil, fmt.Errorf("source %q is not a completable task", source)
	}
	return s.ledger.Credit(ctx, accountID, source.TaskReward(), source, nil)
}

func (s *rewardService) ClaimDailyBonus(ctx context.Context, accountID string) (*entities.PointsActivity, int, error) {
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, 0, entities.ErrAccountNotFound
	}

	last, err := s.activityRepo.GetLastBySource(ctx, accountID, entities.SourceDailyBonus)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get last daily bonus: %w", err)
	}

	now := s.now().UTC()
	streak := 1
	if last != nil {
		switch {
		case isSameUTCDay(last.CreatedAt, now):
			return nil, 0, entities.ErrDailyBonusAlreadyClaimed
		case isSameUTCDay(last.CreatedAt.Add(24*time.Hour), now):
			streak = account.DailyStreak + 1
		}
	}

	activity, err := s.ledger.Credit(ctx, accountID, entities.DailyBonusReward, entities.SourceDailyBonus, map[string]any{
		"streak": streak,
	})
	if err != nil {
		return nil, 0, err
	}

	if err := s.accountRepo.UpdateDailyStreak(ctx, accountID, streak); err != nil {
		return nil, 0, fmt.Errorf("failed to update daily streak: %w", err)
	}

	return activity, streak, nil
}

// isSameUTCDay checks if two times fall on the same UTC calendar day
func isSameUTCDay(t1, t2 time.Time) bool {
	y1, m1, d1 := t1.UTC().Date()
	y2, m2, d2 := t2.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
