package entities

import (
	"errors"
	"time"
)

// FreeTrialDuration is the window during which provisioning is free after
// the first trial claim.
const FreeTrialDuration = 7 * 24 * time.Hour

// Account represents a signed-in user with their points balance and trial state
type Account struct {
	ID              string     `db:"id"` // Identity provider subject, opaque
	Email           string     `db:"email"`
	DisplayName     string     `db:"display_name"`
	AvatarURL       string     `db:"avatar_url"`
	Points          int64      `db:"points"`
	LifetimePoints  int64      `db:"lifetime_points"`
	FreeTrialUsed   bool       `db:"free_trial_used"`
	FreeTrialStart  *time.Time `db:"free_trial_started_at"`
	Banned          bool       `db:"banned"`
	BanReason       string     `db:"ban_reason"`
	DailyStreak     int        `db:"daily_streak"`
	LastLoginAt     time.Time  `db:"last_login_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// CanAfford checks if the account has sufficient points for an amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Points >= amount
}

// IsTrialEligible reports whether the account may provision for free at the
// given time: either the trial was never claimed, or the claim is still
// inside the trial window.
func (a *Account) IsTrialEligible(now time.Time) bool {
	if !a.FreeTrialUsed {
		return true
	}
	if a.FreeTrialStart == nil {
		return false
	}
	return now.Sub(*a.FreeTrialStart) <= FreeTrialDuration
}

// TrialDaysRemaining returns the number of whole days left in the trial
// window, zero once expired. An unclaimed trial has the full window ahead.
func (a *Account) TrialDaysRemaining(now time.Time) int {
	if !a.FreeTrialUsed {
		return int(FreeTrialDuration / (24 * time.Hour))
	}
	if a.FreeTrialStart == nil {
		return 0
	}
	remaining := FreeTrialDuration - now.Sub(*a.FreeTrialStart)
	if remaining <= 0 {
		return 0
	}
	return int(remaining / (24 * time.Hour))
}

// ValidateAmount checks if an amount is valid (positive and affordable)
func (a *Account) ValidateAmount(amount int64) error {
	if amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !a.CanAfford(amount) {
		return ErrInsufficientPoints
	}
	return nil
}

// CalculateNewBalance calculates what the balance would be after a change
func (a *Account) CalculateNewBalance(changeAmount int64) int64 {
	return a.Points + changeAmount
}
