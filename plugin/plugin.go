// Package plugin provides an extensible plugin system for Storefront.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"

	"github.com/xraph/storefront/catalog"
	"github.com/xraph/storefront/grant"
	"github.com/xraph/storefront/platform"
	"github.com/xraph/storefront/tier"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the engine is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Catalog hooks
// ──────────────────────────────────────────────────

// OnProductsLoaded is called after a product reload replaces the catalog.
type OnProductsLoaded interface {
	Plugin
	OnProductsLoaded(ctx context.Context, products []catalog.Product) error
}

// ──────────────────────────────────────────────────
// Purchase and transaction hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted is called when a purchase flow resolves, whatever
// the outcome.
type OnPurchaseCompleted interface {
	Plugin
	OnPurchaseCompleted(ctx context.Context, productID string, outcome platform.PurchaseOutcome) error
}

// OnTransactionProcessed is called after each transaction runs through the
// pipeline. finished reports whether the transaction was acknowledged.
type OnTransactionProcessed interface {
	Plugin
	OnTransactionProcessed(ctx context.Context, txn platform.Transaction, finished bool) error
}

// OnRestoreCompleted is called when a purchase-history replay finishes.
type OnRestoreCompleted interface {
	Plugin
	OnRestoreCompleted(ctx context.Context, err error) error
}

// ──────────────────────────────────────────────────
// Entitlement hooks
// ──────────────────────────────────────────────────

// OnTierChanged is called when reconciliation lands on a different tier.
type OnTierChanged interface {
	Plugin
	OnTierChanged(ctx context.Context, previous, current tier.Tier) error
}

// OnOwnershipChanged is called when a non-consumable is granted or revoked.
type OnOwnershipChanged interface {
	Plugin
	OnOwnershipChanged(ctx context.Context, productID string, owned bool) error
}

// OnStatusRefreshed is called after a subscription-group status refresh.
type OnStatusRefreshed interface {
	Plugin
	OnStatusRefreshed(ctx context.Context, groupID string, current tier.Tier) error
}

// ──────────────────────────────────────────────────
// Economy hooks
// ──────────────────────────────────────────────────

// OnConsumableGranted is called after a consumable grant is applied and
// recorded in the ledger.
type OnConsumableGranted interface {
	Plugin
	OnConsumableGranted(ctx context.Context, txnID uint64, productID string, g grant.Grant) error
}

// OnEconomyError is called when the economy sink rejects a grant. The
// transaction stays unfinished and will be redelivered.
type OnEconomyError interface {
	Plugin
	OnEconomyError(ctx context.Context, txnID uint64, productID string, err error) error
}
