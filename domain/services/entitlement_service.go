package services

import (
	"errors"
	"time"

	"vpsboard/domain/entities"
)

// TrialStatus is the result of a free-trial evaluation
type TrialStatus struct {
	Eligible      bool
	DaysRemaining int
}

// Quote prices a provisioning request against the fixed catalog
type Quote struct {
	Config         entities.VPSConfig
	Hours          int
	RequiredPoints int64
}

// EntitlementService contains pure business logic for trial and affordability
// decisions. All methods are functions of their inputs and the clock only.
type EntitlementService struct {
	now func() time.Time
}

// NewEntitlementService creates a new EntitlementService
func NewEntitlementService() *EntitlementService {
	return &EntitlementService{now: time.Now}
}

// NewEntitlementServiceWithClock creates an EntitlementService with a fixed
// clock, for tests
func NewEntitlementServiceWithClock(now func() time.Time) *EntitlementService {
	return &EntitlementService{now: now}
}

// EvaluateFreeTrial reports whether the account may provision for free and
// how many whole days of the trial window remain
func (s *EntitlementService) EvaluateFreeTrial(account *entities.Account) TrialStatus {
	now := s.now()
	return TrialStatus{
		Eligible:      account.IsTrialEligible(now),
		DaysRemaining: account.TrialDaysRemaining(now),
	}
}

// EvaluateAffordability accepts when the account is inside an eligible trial
// window or can pay requiredPoints. The ban check runs before any other rule.
func (s *EntitlementService) EvaluateAffordability(account *entities.Account, requiredPoints int64) error {
	if account.Banned {
		return entities.ErrAccountBanned
	}
	if account.IsTrialEligible(s.now()) {
		return nil
	}
	if !account.CanAfford(requiredPoints) {
		return entities.ErrInsufficientPoints
	}
	return nil
}

// QuoteRequest validates a configuration key, OS version and duration, and
// computes the total point cost. An unknown key is fatal to the request.
func (s *EntitlementService) QuoteRequest(configKey, osVersion string, hours int) (*Quote, error) {
	config, ok := entities.ConfigByKey(configKey)
	if !ok {
		return nil, entities.ErrInvalidConfiguration
	}
	if !config.SupportsOS(osVersion) {
		return nil, entities.ErrInvalidOSForConfiguration
	}
	if hours <= 0 {
		return nil, errors.New("duration must be at least one hour")
	}

	return &Quote{
		Config:         config,
		Hours:          hours,
		RequiredPoints: config.Cost(hours),
	}, nil
}
