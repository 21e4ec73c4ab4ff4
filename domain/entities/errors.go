package entities

import "errors"

// Domain errors returned by services. Handlers map these onto HTTP statuses.
var (
	// ErrAccountNotFound indicates the account does not exist in the store
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountBanned is returned for any mutation attempted by a banned account
	ErrAccountBanned = errors.New("account is banned")

	// ErrInsufficientPoints indicates the balance cannot cover the requested debit
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrInvalidConfiguration indicates an unrecognized VPS configuration key
	ErrInvalidConfiguration = errors.New("unknown vps configuration")

	// ErrInvalidOSForConfiguration indicates the requested OS is not in the
	// configuration's supported set
	ErrInvalidOSForConfiguration = errors.New("os version not supported by configuration")

	// ErrDailyBonusAlreadyClaimed indicates the daily bonus was already claimed today
	ErrDailyBonusAlreadyClaimed = errors.New("daily bonus already claimed today")
)
