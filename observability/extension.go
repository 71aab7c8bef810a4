// Package observability provides a metrics extension for Storefront that
// records lifecycle event counts via an injected MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/storefront/catalog"
	"github.com/xraph/storefront/grant"
	"github.com/xraph/storefront/platform"
	"github.com/xraph/storefront/plugin"
	"github.com/xraph/storefront/tier"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnProductsLoaded       = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseCompleted    = (*MetricsExtension)(nil)
	_ plugin.OnTransactionProcessed = (*MetricsExtension)(nil)
	_ plugin.OnRestoreCompleted     = (*MetricsExtension)(nil)
	_ plugin.OnTierChanged          = (*MetricsExtension)(nil)
	_ plugin.OnOwnershipChanged     = (*MetricsExtension)(nil)
	_ plugin.OnStatusRefreshed      = (*MetricsExtension)(nil)
	_ plugin.OnConsumableGranted    = (*MetricsExtension)(nil)
	_ plugin.OnEconomyError         = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Storefront plugin to automatically track purchase and
// entitlement metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Catalog metrics
	ProductsLoaded Counter
	CatalogSize    Histogram

	// Purchase metrics
	PurchaseSuccess   Counter
	PurchaseCancelled Counter
	PurchasePending   Counter

	// Transaction metrics
	TransactionsFinished   Counter
	TransactionsUnfinished Counter
	RestoreCompleted       Counter
	RestoreFailed          Counter

	// Entitlement metrics
	TierChanges      Counter
	OwnershipGrants  Counter
	OwnershipRevokes Counter
	StatusRefreshes  Counter

	// Economy metrics
	ConsumablesGranted Counter
	GrantQuantity      Histogram
	EconomyErrors      Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Catalog metrics
		ProductsLoaded: factory.Counter("storefront.catalog.loads"),
		CatalogSize:    factory.Histogram("storefront.catalog.size"),

		// Purchase metrics
		PurchaseSuccess:   factory.Counter("storefront.purchase.success"),
		PurchaseCancelled: factory.Counter("storefront.purchase.cancelled"),
		PurchasePending:   factory.Counter("storefront.purchase.pending"),

		// Transaction metrics
		TransactionsFinished:   factory.Counter("storefront.transaction.finished"),
		TransactionsUnfinished: factory.Counter("storefront.transaction.unfinished"),
		RestoreCompleted:       factory.Counter("storefront.restore.completed"),
		RestoreFailed:          factory.Counter("storefront.restore.failed"),

		// Entitlement metrics
		TierChanges:      factory.Counter("storefront.entitlement.tier_changes"),
		OwnershipGrants:  factory.Counter("storefront.entitlement.ownership.grants"),
		OwnershipRevokes: factory.Counter("storefront.entitlement.ownership.revokes"),
		StatusRefreshes:  factory.Counter("storefront.entitlement.status_refreshes"),

		// Economy metrics
		ConsumablesGranted: factory.Counter("storefront.economy.grants"),
		GrantQuantity:      factory.Histogram("storefront.economy.grant_quantity"),
		EconomyErrors:      factory.Counter("storefront.economy.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Catalog hooks
// ──────────────────────────────────────────────────

// OnProductsLoaded implements plugin.OnProductsLoaded.
func (m *MetricsExtension) OnProductsLoaded(_ context.Context, products []catalog.Product) error {
	m.ProductsLoaded.Inc()
	m.CatalogSize.Observe(float64(len(products)))
	return nil
}

// ──────────────────────────────────────────────────
// Purchase and transaction hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted implements plugin.OnPurchaseCompleted.
func (m *MetricsExtension) OnPurchaseCompleted(_ context.Context, _ string, outcome platform.PurchaseOutcome) error {
	switch outcome {
	case platform.PurchaseSuccess:
		m.PurchaseSuccess.Inc()
	case platform.PurchaseCancelled:
		m.PurchaseCancelled.Inc()
	case platform.PurchasePending:
		m.PurchasePending.Inc()
	}
	return nil
}

// OnTransactionProcessed implements plugin.OnTransactionProcessed.
func (m *MetricsExtension) OnTransactionProcessed(_ context.Context, _ platform.Transaction, finished bool) error {
	if finished {
		m.TransactionsFinished.Inc()
	} else {
		m.TransactionsUnfinished.Inc()
	}
	return nil
}

// OnRestoreCompleted implements plugin.OnRestoreCompleted.
func (m *MetricsExtension) OnRestoreCompleted(_ context.Context, err error) error {
	if err != nil {
		m.RestoreFailed.Inc()
	} else {
		m.RestoreCompleted.Inc()
	}
	return nil
}

// ──────────────────────────────────────────────────
// Entitlement hooks
// ──────────────────────────────────────────────────

// OnTierChanged implements plugin.OnTierChanged.
func (m *MetricsExtension) OnTierChanged(_ context.Context, _, _ tier.Tier) error {
	m.TierChanges.Inc()
	return nil
}

// OnOwnershipChanged implements plugin.OnOwnershipChanged.
func (m *MetricsExtension) OnOwnershipChanged(_ context.Context, _ string, owned bool) error {
	if owned {
		m.OwnershipGrants.Inc()
	} else {
		m.OwnershipRevokes.Inc()
	}
	return nil
}

// OnStatusRefreshed implements plugin.OnStatusRefreshed.
func (m *MetricsExtension) OnStatusRefreshed(_ context.Context, _ string, _ tier.Tier) error {
	m.StatusRefreshes.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Economy hooks
// ──────────────────────────────────────────────────

// OnConsumableGranted implements plugin.OnConsumableGranted.
func (m *MetricsExtension) OnConsumableGranted(_ context.Context, _ uint64, _ string, g grant.Grant) error {
	m.ConsumablesGranted.Inc()
	m.GrantQuantity.Observe(float64(g.Quantity))
	return nil
}

// OnEconomyError implements plugin.OnEconomyError.
func (m *MetricsExtension) OnEconomyError(_ context.Context, _ uint64, _ string, _ error) error {
	m.EconomyErrors.Inc()
	return nil
}
