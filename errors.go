package storefront

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotStarted     = errors.New("storefront: engine not started")
	ErrAlreadyStarted = errors.New("storefront: engine already started")
	ErrInvalidInput   = errors.New("storefront: invalid input")

	// Catalog errors
	ErrProductNotAvailable = errors.New("storefront: product not available")
	ErrProductsNotLoaded   = errors.New("storefront: products not loaded")

	// Purchase errors
	ErrPurchaseFailed      = errors.New("storefront: purchase failed")
	ErrVerificationFailed  = errors.New("storefront: transaction verification failed")
	ErrStatusUnavailable   = errors.New("storefront: subscription status unavailable")
	ErrNoSubscriptionGroup = errors.New("storefront: no subscription group configured")

	// Ledger errors
	ErrAlreadyRecorded = errors.New("storefront: transaction already recorded")
	ErrStoreNotReady   = errors.New("storefront: ledger store not ready")

	// Economy errors
	ErrNoEconomySink = errors.New("storefront: no economy sink configured")
	ErrGrantRejected = errors.New("storefront: economy sink rejected grant")
)

// UserError is an error with presentation-ready strings. Operations that
// surface to a purchase UI wrap their failures in one of these; everything
// else stays a plain error.
type UserError struct {
	Title   string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storefront: %s: %v", e.Message, e.Err)
	}
	return "storefront: " + e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with user-facing strings.
func NewUserError(title, message string, err error) *UserError {
	return &UserError{Title: title, Message: message, Err: err}
}

// IsUserError reports whether err carries presentation strings, returning
// them when it does.
func IsUserError(err error) (*UserError, bool) {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// IsRetryable returns true if the error is temporary and the operation can
// be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrStatusUnavailable) ||
		errors.Is(err, ErrGrantRejected)
}
