package web

import (
	"encoding/json"
	"net/http"
	"time"

	"vpsboard/domain/entities"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

type accountResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	DisplayName        string     `json:"display_name"`
	AvatarURL          string     `json:"avatar_url,omitempty"`
	Points             int64      `json:"points"`
	LifetimePoints     int64      `json:"lifetime_points"`
	FreeTrialUsed      bool       `json:"free_trial_used"`
	FreeTrialStartedAt *time.Time `json:"free_trial_started_at,omitempty"`
	TrialEligible      bool       `json:"trial_eligible"`
	TrialDaysRemaining int        `json:"trial_days_remaining"`
	DailyStreak        int        `json:"daily_streak"`
	LastLoginAt        time.Time  `json:"last_login_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

func newAccountResponse(account *entities.Account, now time.Time) accountResponse {
	return accountResponse{
		ID:                 account.ID,
		Email:              account.Email,
		DisplayName:        account.DisplayName,
		AvatarURL:          account.AvatarURL,
		Points:             account.Points,
		LifetimePoints:     account.LifetimePoints,
		FreeTrialUsed:      account.FreeTrialUsed,
		FreeTrialStartedAt: account.FreeTrialStart,
		TrialEligible:      account.IsTrialEligible(now),
		TrialDaysRemaining: account.TrialDaysRemaining(now),
		DailyStreak:        account.DailyStreak,
		LastLoginAt:        account.LastLoginAt,
		CreatedAt:          account.CreatedAt,
	}
}

type activityResponse struct {
	ID            int64          `json:"id"`
	Amount        int64          `json:"amount"`
	BalanceBefore int64          `json:"balance_before"`
	BalanceAfter  int64          `json:"balance_after"`
	Source        string         `json:"source"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

func newActivityResponse(activity *entities.PointsActivity) activityResponse {
	return activityResponse{
		ID:            activity.ID,
		Amount:        activity.Amount,
		BalanceBefore: activity.BalanceBefore,
		BalanceAfter:  activity.BalanceAfter,
		Source:        activity.Source.String(),
		Metadata:      activity.Metadata,
		CreatedAt:     activity.CreatedAt,
	}
}

type taskResponse struct {
	Activity activityResponse `json:"activity"`
	Points   int64            `json:"points"`
}

type dailyBonusResponse struct {
	Activity activityResponse `json:"activity"`
	Points   int64            `json:"points"`
	Streak   int              `json:"streak"`
}

type vpsRequestResponse struct {
	ID            string    `json:"id"`
	ConfigKey     string    `json:"config_key"`
	CPU           int       `json:"cpu"`
	RAMGB         int       `json:"ram_gb"`
	OSVersion     string    `json:"os_version"`
	Hours         int       `json:"hours"`
	PointsPerHour int64     `json:"points_per_hour"`
	TotalPoints   int64     `json:"total_points"`
	Status        string    `json:"status"`
	FreeTrial     bool      `json:"free_trial"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func newVPSRequestResponse(request *entities.VPSRequest) vpsRequestResponse {
	return vpsRequestResponse{
		ID:            request.ID,
		ConfigKey:     request.ConfigKey,
		CPU:           request.CPU,
		RAMGB:         request.RAMGB,
		OSVersion:     request.OSVersion,
		Hours:         request.Hours,
		PointsPerHour: request.PointsPerHour,
		TotalPoints:   request.TotalPoints,
		Status:        string(request.Status),
		FreeTrial:     request.FreeTrial,
		CreatedAt:     request.CreatedAt,
		ExpiresAt:     request.ExpiresAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithField("error", err).Error("Failed to encode response")
	}
}
