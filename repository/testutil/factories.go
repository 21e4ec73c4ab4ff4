package testutil

import (
	"time"

	"vpsboard/domain/entities"

	"github.com/google/uuid"
)

// CreateTestIdentity returns deterministic identity fields for an account
func CreateTestIdentity(suffix string) (id, email, displayName, avatarURL string) {
	return "subject-" + suffix, suffix + "@example.com", "User " + suffix, "https://avatars.example.com/" + suffix
}

// CreateTestActivity creates a test points activity entry
func CreateTestActivity(accountID string, source entities.ActivitySource) *entities.PointsActivity {
	return &entities.PointsActivity{
		AccountID:     accountID,
		Amount:        5,
		BalanceBefore: 100,
		BalanceAfter:  105,
		Source:        source,
		Metadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestActivityWithAmounts creates a test activity with specific amounts
func CreateTestActivityWithAmounts(accountID string, before, after, change int64, source entities.ActivitySource) *entities.PointsActivity {
	activity := CreateTestActivity(accountID, source)
	activity.BalanceBefore = before
	activity.BalanceAfter = after
	activity.Amount = change
	return activity
}

// CreateTestVPSRequest creates a test VPS request with sensible defaults
func CreateTestVPSRequest(accountID, configKey string) *entities.VPSRequest {
	cfg, ok := entities.ConfigByKey(configKey)
	if !ok {
		panic("unknown vps config key: " + configKey)
	}
	now := time.Now()
	hours := 6
	return &entities.VPSRequest{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		ConfigKey:     cfg.Key,
		CPU:           cfg.CPU,
		RAMGB:         cfg.RAMGB,
		OSVersion:     "2022",
		Hours:         hours,
		PointsPerHour: cfg.PointsPerHour,
		TotalPoints:   cfg.Cost(hours),
		Status:        entities.VPSRequestStatusPending,
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Duration(hours) * time.Hour),
	}
}

// CreateTestSuspiciousActivity creates a test suspicious activity report
func CreateTestSuspiciousActivity(accountID, reason string) *entities.SuspiciousActivity {
	return &entities.SuspiciousActivity{
		AccountID: accountID,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
}
