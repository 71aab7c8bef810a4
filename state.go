package storefront

import (
	"time"

	"github.com/xraph/storefront/catalog"
	"github.com/xraph/storefront/platform"
	"github.com/xraph/storefront/tier"
)

// Phase describes what the engine is currently doing, for UI consumption.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseLoadingProducts Phase = "loading_products"
	PhaseRestoring       Phase = "restoring"
)

// SubscriptionDetails is the verified snapshot of the user's current
// subscription within the configured group.
type SubscriptionDetails struct {
	Tier               tier.Tier             `json:"tier"`
	ProductID          string                `json:"product_id"`
	State              platform.RenewalState `json:"state"`
	ExpiresAt          *time.Time            `json:"expires_at,omitempty"`
	WillAutoRenew      bool                  `json:"will_auto_renew"`
	AutoRenewProductID string                `json:"auto_renew_product_id,omitempty"`
	IsIntroOffer       bool                  `json:"is_intro_offer,omitempty"`

	// ActiveProduct is the cached catalog metadata for ProductID, nil when
	// the catalog has not been loaded.
	ActiveProduct *catalog.Product `json:"active_product,omitempty"`
}

// State is a point-in-time snapshot of the engine for UI binding. It is a
// value copy; mutating it has no effect on the engine.
type State struct {
	Phase Phase     `json:"phase"`
	Tier  tier.Tier `json:"tier"`

	// Subscription is nil when the user has no active subscription.
	Subscription *SubscriptionDetails `json:"subscription,omitempty"`

	// Owned lists non-consumable product ids currently owned, sorted.
	Owned []string `json:"owned,omitempty"`
}

// Owns reports whether the snapshot includes the given non-consumable.
func (s State) Owns(productID string) bool {
	for _, id := range s.Owned {
		if id == productID {
			return true
		}
	}
	return false
}
