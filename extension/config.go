package extension

// Config holds the Storefront extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.storefront" or "storefront"
// keys).
type Config struct {
	// DisableMigrate prevents auto-starting the engine (and therefore
	// ledger migration) on extension start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// DisableAutoLoad skips the initial product load and status refresh
	// after the engine starts.
	DisableAutoLoad bool `json:"disable_auto_load" mapstructure:"disable_auto_load" yaml:"disable_auto_load"`

	// ProductIDs is the catalog loaded from the platform on start.
	ProductIDs []string `json:"product_ids" mapstructure:"product_ids" yaml:"product_ids"`

	// SubscriptionGroup is the subscription group reconciled by status
	// refreshes.
	SubscriptionGroup string `json:"subscription_group" mapstructure:"subscription_group" yaml:"subscription_group"`

	// LedgerPath is the file path for the default ledger store. When empty
	// and no store was provided programmatically, an in-memory store is
	// used and consumable dedup does not survive restarts.
	LedgerPath string `json:"ledger_path" mapstructure:"ledger_path" yaml:"ledger_path"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{}
}
