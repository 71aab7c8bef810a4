// Package platform defines the purchase-backend capabilities Storefront
// consumes and the wire types they exchange.
//
// The platform is an external collaborator: product lookup, purchase
// initiation, transaction signing, and receipt verification all live behind
// the Client interface. Storefront never inspects signature envelopes
// itself; it hands signed payloads back to the client for verification.
package platform

import (
	"time"

	"github.com/xraph/storefront/catalog"
)

// Transaction is a verified purchase event issued by the platform.
type Transaction struct {
	// ID is unique per transaction, platform-issued.
	ID uint64 `json:"id"`

	ProductID   string              `json:"product_id"`
	ProductType catalog.ProductType `json:"product_type"`

	// RevokedAt is set when the platform revoked the purchase
	// (refund, family-sharing removal).
	RevokedAt *time.Time `json:"revoked_at,omitempty"`

	// ExpiresAt is set for subscription transactions.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// GroupID is the subscription group for auto-renewable products.
	GroupID string `json:"group_id,omitempty"`

	// IsIntroOffer marks a transaction granted under an introductory
	// (free-trial) offer.
	IsIntroOffer bool `json:"is_intro_offer,omitempty"`
}

// Revoked reports whether the platform has revoked this transaction.
func (t Transaction) Revoked() bool {
	return t.RevokedAt != nil
}

// SignedTransaction is an unverified transaction envelope as delivered by
// the platform streams. Client.VerifyTransaction turns it into a
// Transaction or rejects it.
type SignedTransaction struct {
	Transaction Transaction `json:"transaction"`
	Signature   string      `json:"signature"`
}

// RenewalInfo is verified auto-renewal metadata for a subscription.
type RenewalInfo struct {
	WillAutoRenew      bool   `json:"will_auto_renew"`
	AutoRenewProductID string `json:"auto_renew_product_id,omitempty"`
}

// SignedRenewal is an unverified renewal-info envelope.
// Client.VerifyRenewal turns it into a RenewalInfo or rejects it.
type SignedRenewal struct {
	Renewal   RenewalInfo `json:"renewal"`
	Signature string      `json:"signature"`
}

// RenewalState is the platform's view of a subscription's lifecycle.
type RenewalState string

const (
	StateSubscribed     RenewalState = "subscribed"
	StateExpired        RenewalState = "expired"
	StateInBillingRetry RenewalState = "in_billing_retry"
	StateInGracePeriod  RenewalState = "in_grace_period"
	StateRevoked        RenewalState = "revoked"
)

// Status is one record of a subscription-group status snapshot.
// The embedded transaction and renewal info both require verification
// before use.
type Status struct {
	State       RenewalState      `json:"state"`
	Transaction SignedTransaction `json:"transaction"`
	Renewal     SignedRenewal     `json:"renewal"`
}

// PurchaseOutcome classifies the result of a purchase attempt.
type PurchaseOutcome string

const (
	// PurchaseSuccess means the platform returned a verified transaction.
	PurchaseSuccess PurchaseOutcome = "success"
	// PurchaseCancelled means the user dismissed the purchase flow.
	// UI should dismiss silently.
	PurchaseCancelled PurchaseOutcome = "cancelled"
	// PurchasePending means the purchase awaits external approval
	// (e.g. parental consent). UI should show awaiting-approval messaging.
	PurchasePending PurchaseOutcome = "pending"
)

// PurchaseResult is the platform's answer to a purchase request.
// Transaction is only meaningful when Outcome is PurchaseSuccess.
type PurchaseResult struct {
	Outcome     PurchaseOutcome   `json:"outcome"`
	Transaction SignedTransaction `json:"transaction,omitempty"`
}
