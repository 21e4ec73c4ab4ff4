package web

import (
	"errors"
	"fmt"
	"net/http"

	"vpsboard/domain/entities"

	log "github.com/sirupsen/logrus"
)

// APIError carries a user-facing message and status alongside the internal error
type APIError struct {
	Status      int
	UserMessage string
	Err         error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

// Unwrap returns the underlying error
func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(status int, userMessage string, err error) *APIError {
	return &APIError{
		Status:      status,
		UserMessage: userMessage,
		Err:         err,
	}
}

// mapDomainError converts domain errors to API errors. Anything unrecognized
// is treated as a store failure.
func mapDomainError(err error) *APIError {
	switch {
	case errors.Is(err, entities.ErrAccountBanned):
		return newAPIError(http.StatusForbidden, "Your account has been banned.", err)
	case errors.Is(err, entities.ErrInsufficientPoints):
		return newAPIError(http.StatusPaymentRequired, "You do not have enough points for this request.", err)
	case errors.Is(err, entities.ErrInvalidConfiguration):
		return newAPIError(http.StatusBadRequest, "Unknown VPS configuration.", err)
	case errors.Is(err, entities.ErrInvalidOSForConfiguration):
		return newAPIError(http.StatusBadRequest, "The selected OS is not available for this configuration.", err)
	case errors.Is(err, entities.ErrAccountNotFound):
		return newAPIError(http.StatusNotFound, "Account not found.", err)
	case errors.Is(err, entities.ErrDailyBonusAlreadyClaimed):
		return newAPIError(http.StatusConflict, "Daily bonus already claimed today.", err)
	default:
		return newAPIError(http.StatusBadGateway, "Something went wrong. Please try again later.", err)
	}
}

// writeError logs the internal error and sends the user-facing message
func writeError(w http.ResponseWriter, r *http.Request, apiErr *APIError) {
	fields := log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": apiErr.Status,
	}
	if apiErr.Err != nil {
		fields["error"] = apiErr.Err
	}
	if identity := IdentityFromContext(r.Context()); identity != nil {
		fields["accountID"] = identity.ID
	}

	if apiErr.Status >= http.StatusInternalServerError {
		log.WithFields(fields).Error("Request failed")
	} else {
		log.WithFields(fields).Warn("Request rejected")
	}

	writeJSON(w, apiErr.Status, errorResponse{Error: apiErr.UserMessage})
}
