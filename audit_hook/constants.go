package audithook

// Action constants for audit events.
const (
	// Catalog actions
	ActionProductsLoaded = "catalog.products_loaded"

	// Purchase actions
	ActionPurchaseCompleted     = "purchase.completed"
	ActionTransactionProcessed  = "transaction.processed"
	ActionTransactionUnfinished = "transaction.unfinished"
	ActionRestoreCompleted      = "purchase.restore_completed"

	// Entitlement actions
	ActionTierChanged      = "entitlement.tier_changed"
	ActionOwnershipGranted = "entitlement.ownership_granted"
	ActionOwnershipRevoked = "entitlement.ownership_revoked"
	ActionStatusRefreshed  = "entitlement.status_refreshed"

	// Economy actions
	ActionConsumableGranted = "economy.consumable_granted"
	ActionEconomyError      = "economy.grant_failed"
)

// Resource constants for audit events.
const (
	ResourceCatalog     = "catalog"
	ResourcePurchase    = "purchase"
	ResourceTransaction = "transaction"
	ResourceEntitlement = "entitlement"
	ResourceEconomy     = "economy"
)

// Category constants for audit events.
const (
	CategoryCatalog     = "catalog"
	CategoryPurchase    = "purchase"
	CategoryEntitlement = "entitlement"
	CategoryEconomy     = "economy"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
