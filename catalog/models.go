// Package catalog defines the product metadata Storefront caches for a
// session: identifiers, display strings, prices, and subscription grouping.
package catalog

import "github.com/xraph/storefront/types"

// ProductType classifies how a product is purchased and owned.
type ProductType string

const (
	// TypeConsumable products can be bought repeatedly and are spent into
	// an app-defined economy.
	TypeConsumable ProductType = "consumable"
	// TypeNonConsumable products are owned permanently once granted.
	TypeNonConsumable ProductType = "non_consumable"
	// TypeAutoRenewable products are renewing subscriptions.
	TypeAutoRenewable ProductType = "auto_renewable"
	// TypeNonRenewing products are fixed-duration purchases without renewal.
	TypeNonRenewing ProductType = "non_renewing"
)

// IsOwnable reports whether the type confers permanent ownership.
func (t ProductType) IsOwnable() bool {
	return t == TypeNonConsumable
}

// IsRenewable reports whether the type is an auto-renewing subscription.
func (t ProductType) IsRenewable() bool {
	return t == TypeAutoRenewable
}

// Product is opaque catalog metadata obtained from the platform.
type Product struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	Description string      `json:"description,omitempty"`
	Type        ProductType `json:"type"`
	Price       types.Money `json:"price"`

	// GroupID and GroupLevel are set for auto-renewable subscriptions.
	// Lower levels rank higher within a platform subscription group.
	GroupID    string `json:"group_id,omitempty"`
	GroupLevel int    `json:"group_level,omitempty"`
}

// IsSubscription reports whether the product renews automatically.
func (p Product) IsSubscription() bool {
	return p.Type == TypeAutoRenewable
}
