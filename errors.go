package casperflow

import (
	"errors"
	"fmt"

	"github.com/Abhishekgoyal007/CasperFlow/stake"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("casperflow: not found")
	ErrAlreadyExists = errors.New("casperflow: already exists")
	ErrInvalidInput  = errors.New("casperflow: invalid input")
	ErrUnauthorized  = errors.New("casperflow: unauthorized")
	ErrZeroAmount    = errors.New("casperflow: amount must be positive")

	// Staking errors
	ErrAccountNotFound    = errors.New("casperflow: stake account not found")
	ErrInsufficientFunds  = stake.ErrInsufficientFunds
	ErrStakeToPayDisabled = errors.New("casperflow: stake-to-pay is disabled for this account")

	// Plan errors
	ErrPlanNotFound = errors.New("casperflow: plan not found")
	ErrPlanInactive = errors.New("casperflow: plan is inactive")

	// Subscription errors
	ErrSubscriptionNotFound = errors.New("casperflow: subscription not found")
	ErrAlreadySubscribed    = errors.New("casperflow: subscriber already has an active subscription to this plan")
	ErrSubscriptionCanceled = errors.New("casperflow: subscription is canceled")

	// Metering errors
	ErrRecorderNotAuthorized = errors.New("casperflow: recorder not authorized for this plan")
	ErrPeriodNotFound        = errors.New("casperflow: billing period not found")
	ErrInvalidQuantity       = errors.New("casperflow: invalid usage quantity")

	// Invoice errors
	ErrInvoiceNotFound   = errors.New("casperflow: invoice not found")
	ErrInvoiceNotPending = errors.New("casperflow: invoice is not pending")
	ErrInsufficientValue = errors.New("casperflow: attached value below invoice total")

	// Payment errors
	ErrPaymentNotFound = errors.New("casperflow: payment not found")

	// Configuration errors
	ErrRateTooHigh       = errors.New("casperflow: reward rate exceeds maximum")
	ErrFeeTooHigh        = errors.New("casperflow: protocol fee exceeds maximum")
	ErrFeeRecipientUnset = errors.New("casperflow: protocol fee recipient not configured")

	// Store errors
	ErrStoreNotReady     = errors.New("casperflow: store not ready")
	ErrStoreClosed       = errors.New("casperflow: store is closed")
	ErrTransactionFailed = errors.New("casperflow: transaction failed")
	ErrMigrationFailed   = errors.New("casperflow: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("casperflow: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrSubscriptionNotFound) ||
		errors.Is(err, ErrPeriodNotFound) ||
		errors.Is(err, ErrInvoiceNotFound) ||
		errors.Is(err, ErrPaymentNotFound)
}

// IsAuthorizationError returns true if the error indicates the caller is not
// allowed to perform the operation.
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrRecorderNotAuthorized)
}

// IsFundsError returns true if the error is caused by missing or insufficient
// value rather than by bad input.
func IsFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInsufficientValue)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed)
}
