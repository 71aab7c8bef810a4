package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/storefront/catalog"
	"github.com/xraph/storefront/grant"
	"github.com/xraph/storefront/platform"
	"github.com/xraph/storefront/tier"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onProductsLoaded       []OnProductsLoaded
	onPurchaseCompleted    []OnPurchaseCompleted
	onTransactionProcessed []OnTransactionProcessed
	onRestoreCompleted     []OnRestoreCompleted
	onTierChanged          []OnTierChanged
	onOwnershipChanged     []OnOwnershipChanged
	onStatusRefreshed      []OnStatusRefreshed
	onConsumableGranted    []OnConsumableGranted
	onEconomyError         []OnEconomyError
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnProductsLoaded); ok {
		r.onProductsLoaded = append(r.onProductsLoaded, v)
	}
	if v, ok := p.(OnPurchaseCompleted); ok {
		r.onPurchaseCompleted = append(r.onPurchaseCompleted, v)
	}
	if v, ok := p.(OnTransactionProcessed); ok {
		r.onTransactionProcessed = append(r.onTransactionProcessed, v)
	}
	if v, ok := p.(OnRestoreCompleted); ok {
		r.onRestoreCompleted = append(r.onRestoreCompleted, v)
	}
	if v, ok := p.(OnTierChanged); ok {
		r.onTierChanged = append(r.onTierChanged, v)
	}
	if v, ok := p.(OnOwnershipChanged); ok {
		r.onOwnershipChanged = append(r.onOwnershipChanged, v)
	}
	if v, ok := p.(OnStatusRefreshed); ok {
		r.onStatusRefreshed = append(r.onStatusRefreshed, v)
	}
	if v, ok := p.(OnConsumableGranted); ok {
		r.onConsumableGranted = append(r.onConsumableGranted, v)
	}
	if v, ok := p.(OnEconomyError); ok {
		r.onEconomyError = append(r.onEconomyError, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnProductsLoaded)(nil)).Elem(), "OnProductsLoaded")
	checkInterface(reflect.TypeOf((*OnPurchaseCompleted)(nil)).Elem(), "OnPurchaseCompleted")
	checkInterface(reflect.TypeOf((*OnTransactionProcessed)(nil)).Elem(), "OnTransactionProcessed")
	checkInterface(reflect.TypeOf((*OnRestoreCompleted)(nil)).Elem(), "OnRestoreCompleted")
	checkInterface(reflect.TypeOf((*OnTierChanged)(nil)).Elem(), "OnTierChanged")
	checkInterface(reflect.TypeOf((*OnOwnershipChanged)(nil)).Elem(), "OnOwnershipChanged")
	checkInterface(reflect.TypeOf((*OnStatusRefreshed)(nil)).Elem(), "OnStatusRefreshed")
	checkInterface(reflect.TypeOf((*OnConsumableGranted)(nil)).Elem(), "OnConsumableGranted")
	checkInterface(reflect.TypeOf((*OnEconomyError)(nil)).Elem(), "OnEconomyError")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitProductsLoaded emits a products loaded event.
func (r *Registry) EmitProductsLoaded(ctx context.Context, products []catalog.Product) {
	r.mu.RLock()
	plugins := r.onProductsLoaded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnProductsLoaded(ctx, products)
		}); err != nil {
			r.logger.Warn("plugin OnProductsLoaded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPurchaseCompleted emits a purchase completed event.
func (r *Registry) EmitPurchaseCompleted(ctx context.Context, productID string, outcome platform.PurchaseOutcome) {
	r.mu.RLock()
	plugins := r.onPurchaseCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseCompleted(ctx, productID, outcome)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseCompleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTransactionProcessed emits a transaction processed event.
func (r *Registry) EmitTransactionProcessed(ctx context.Context, txn platform.Transaction, finished bool) {
	r.mu.RLock()
	plugins := r.onTransactionProcessed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTransactionProcessed(ctx, txn, finished)
		}); err != nil {
			r.logger.Warn("plugin OnTransactionProcessed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRestoreCompleted emits a restore completed event.
func (r *Registry) EmitRestoreCompleted(ctx context.Context, restoreErr error) {
	r.mu.RLock()
	plugins := r.onRestoreCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRestoreCompleted(ctx, restoreErr)
		}); err != nil {
			r.logger.Warn("plugin OnRestoreCompleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTierChanged emits a tier changed event.
func (r *Registry) EmitTierChanged(ctx context.Context, previous, current tier.Tier) {
	r.mu.RLock()
	plugins := r.onTierChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTierChanged(ctx, previous, current)
		}); err != nil {
			r.logger.Warn("plugin OnTierChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOwnershipChanged emits an ownership changed event.
func (r *Registry) EmitOwnershipChanged(ctx context.Context, productID string, owned bool) {
	r.mu.RLock()
	plugins := r.onOwnershipChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOwnershipChanged(ctx, productID, owned)
		}); err != nil {
			r.logger.Warn("plugin OnOwnershipChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStatusRefreshed emits a status refreshed event.
func (r *Registry) EmitStatusRefreshed(ctx context.Context, groupID string, current tier.Tier) {
	r.mu.RLock()
	plugins := r.onStatusRefreshed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStatusRefreshed(ctx, groupID, current)
		}); err != nil {
			r.logger.Warn("plugin OnStatusRefreshed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitConsumableGranted emits a consumable granted event.
func (r *Registry) EmitConsumableGranted(ctx context.Context, txnID uint64, productID string, g grant.Grant) {
	r.mu.RLock()
	plugins := r.onConsumableGranted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnConsumableGranted(ctx, txnID, productID, g)
		}); err != nil {
			r.logger.Warn("plugin OnConsumableGranted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEconomyError emits an economy error event.
func (r *Registry) EmitEconomyError(ctx context.Context, txnID uint64, productID string, sinkErr error) {
	r.mu.RLock()
	plugins := r.onEconomyError
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEconomyError(ctx, txnID, productID, sinkErr)
		}); err != nil {
			r.logger.Warn("plugin OnEconomyError failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the transaction pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
