package extension

import (
	"github.com/xraph/storefront"
	"github.com/xraph/storefront/ledger"
	"github.com/xraph/storefront/platform"
	"github.com/xraph/storefront/plugin"
)

// Option configures the Storefront Forge extension.
type Option func(*Extension)

// WithClient sets the platform client the engine drives. Required.
func WithClient(c platform.Client) Option {
	return func(e *Extension) {
		e.client = c
	}
}

// WithStore sets the ledger store for the engine.
func WithStore(s ledger.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithEngineOption passes a storefront.Option through to the underlying engine.
func WithEngineOption(opt storefront.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers a storefront plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, storefront.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-starting the engine on extension start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithDisableAutoLoad skips the initial product load and status refresh.
func WithDisableAutoLoad() Option {
	return func(e *Extension) { e.config.DisableAutoLoad = true }
}

// WithProductIDs sets the catalog loaded on start.
func WithProductIDs(ids ...string) Option {
	return func(e *Extension) { e.config.ProductIDs = ids }
}

// WithSubscriptionGroup sets the reconciled subscription group.
func WithSubscriptionGroup(group string) Option {
	return func(e *Extension) { e.config.SubscriptionGroup = group }
}

// WithLedgerPath sets the file path used for the default ledger store.
func WithLedgerPath(path string) Option {
	return func(e *Extension) { e.config.LedgerPath = path }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
