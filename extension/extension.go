// Package extension provides the Forge extension adapter for Storefront.
//
// It implements the forge.Extension interface to integrate Storefront
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.storefront" or
// "storefront" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/ledger"
	"github.com/xraph/storefront/ledger/file"
	"github.com/xraph/storefront/ledger/memory"
	"github.com/xraph/storefront/platform"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "storefront"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "In-app purchase entitlement engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Storefront as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	client     platform.Client
	engine     *storefront.Engine
	store      ledger.Store
	engineOpts []storefront.Option
}

// New creates a new Storefront Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Storefront engine.
// This is nil until Register is called.
func (e *Extension) Engine() *storefront.Engine { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if e.client == nil {
		return errors.New("storefront: platform client is required; use WithClient")
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Pick a default store when none was provided programmatically.
	if e.store == nil {
		if e.config.LedgerPath != "" {
			e.store = file.New(e.config.LedgerPath)
		} else {
			e.store = memory.New()
		}
	}

	opts := e.buildEngineOpts()

	eng := storefront.New(e.client, e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*storefront.Engine, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("storefront: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}

		if !e.config.DisableAutoLoad {
			e.engine.LoadProducts(ctx)
			if e.config.SubscriptionGroup != "" {
				if err := e.engine.RefreshStatus(ctx, ""); err != nil {
					e.Logger().Warn("storefront: initial status refresh failed",
						forge.F("error", err.Error()),
					)
				}
			}
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("storefront: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildEngineOpts constructs storefront.Option values from the resolved config.
func (e *Extension) buildEngineOpts() []storefront.Option {
	opts := make([]storefront.Option, 0, len(e.engineOpts)+2)

	if len(e.config.ProductIDs) > 0 {
		opts = append(opts, storefront.WithProducts(e.config.ProductIDs...))
	}
	if e.config.SubscriptionGroup != "" {
		opts = append(opts, storefront.WithSubscriptionGroup(e.config.SubscriptionGroup))
	}

	// Append any pass-through engine options.
	opts = append(opts, e.engineOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("storefront: configuration is required but not found in config files; " +
				"ensure 'extensions.storefront' or 'storefront' key exists in your config")
		}

		e.config = programmaticConfig
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("storefront: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("disable_auto_load", e.config.DisableAutoLoad),
		forge.F("product_ids", len(e.config.ProductIDs)),
		forge.F("subscription_group", e.config.SubscriptionGroup),
		forge.F("ledger_path", e.config.LedgerPath),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.storefront" first (namespaced pattern).
	if cm.IsSet("extensions.storefront") {
		if err := cm.Bind("extensions.storefront", &cfg); err == nil {
			e.Logger().Debug("storefront: loaded config from file",
				forge.F("key", "extensions.storefront"),
			)
			return cfg, true
		}
		e.Logger().Warn("storefront: failed to bind extensions.storefront config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "storefront" key.
	if cm.IsSet("storefront") {
		if err := cm.Bind("storefront", &cfg); err == nil {
			e.Logger().Debug("storefront: loaded config from file",
				forge.F("key", "storefront"),
			)
			return cfg, true
		}
		e.Logger().Warn("storefront: failed to bind storefront config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic values fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if programmaticConfig.DisableAutoLoad {
		yamlConfig.DisableAutoLoad = true
	}

	// List and string fields: YAML takes precedence.
	if len(yamlConfig.ProductIDs) == 0 && len(programmaticConfig.ProductIDs) > 0 {
		yamlConfig.ProductIDs = programmaticConfig.ProductIDs
	}
	if yamlConfig.SubscriptionGroup == "" && programmaticConfig.SubscriptionGroup != "" {
		yamlConfig.SubscriptionGroup = programmaticConfig.SubscriptionGroup
	}
	if yamlConfig.LedgerPath == "" && programmaticConfig.LedgerPath != "" {
		yamlConfig.LedgerPath = programmaticConfig.LedgerPath
	}

	return yamlConfig
}
