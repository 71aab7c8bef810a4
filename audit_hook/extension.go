// Package audithook bridges Storefront lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/storefront/catalog"
	"github.com/xraph/storefront/grant"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/platform"
	"github.com/xraph/storefront/plugin"
	"github.com/xraph/storefront/tier"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnProductsLoaded       = (*Extension)(nil)
	_ plugin.OnPurchaseCompleted    = (*Extension)(nil)
	_ plugin.OnTransactionProcessed = (*Extension)(nil)
	_ plugin.OnConsumableGranted    = (*Extension)(nil)
	_ plugin.OnEconomyError         = (*Extension)(nil)
	_ plugin.OnOwnershipChanged     = (*Extension)(nil)
	_ plugin.OnTierChanged          = (*Extension)(nil)
	_ plugin.OnStatusRefreshed      = (*Extension)(nil)
	_ plugin.OnRestoreCompleted     = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly; callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	ID         id.EventID     `json:"id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Storefront lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Catalog hooks
// ──────────────────────────────────────────────────

// OnProductsLoaded implements plugin.OnProductsLoaded.
func (e *Extension) OnProductsLoaded(ctx context.Context, products []catalog.Product) error {
	return e.record(ctx, ActionProductsLoaded, SeverityInfo, OutcomeSuccess,
		ResourceCatalog, "", CategoryCatalog, nil,
		"count", len(products),
	)
}

// ──────────────────────────────────────────────────
// Purchase and transaction hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted implements plugin.OnPurchaseCompleted.
func (e *Extension) OnPurchaseCompleted(ctx context.Context, productID string, outcome platform.PurchaseOutcome) error {
	severity := SeverityInfo
	result := OutcomeSuccess
	if outcome != platform.PurchaseSuccess {
		result = OutcomePartial
	}
	return e.record(ctx, ActionPurchaseCompleted, severity, result,
		ResourcePurchase, productID, CategoryPurchase, nil,
		"product_id", productID,
		"outcome", string(outcome),
	)
}

// OnTransactionProcessed implements plugin.OnTransactionProcessed.
func (e *Extension) OnTransactionProcessed(ctx context.Context, txn platform.Transaction, finished bool) error {
	action := ActionTransactionProcessed
	severity := SeverityInfo
	outcome := OutcomeSuccess
	if !finished {
		action = ActionTransactionUnfinished
		severity = SeverityWarning
		outcome = OutcomeFailure
	}
	return e.record(ctx, action, severity, outcome,
		ResourceTransaction, fmt.Sprintf("%d", txn.ID), CategoryPurchase, nil,
		"txn_id", txn.ID,
		"product_id", txn.ProductID,
		"product_type", string(txn.ProductType),
		"finished", finished,
	)
}

// OnRestoreCompleted implements plugin.OnRestoreCompleted.
func (e *Extension) OnRestoreCompleted(ctx context.Context, restoreErr error) error {
	severity := SeverityInfo
	outcome := OutcomeSuccess
	if restoreErr != nil {
		severity = SeverityWarning
		outcome = OutcomeFailure
	}
	return e.record(ctx, ActionRestoreCompleted, severity, outcome,
		ResourcePurchase, "", CategoryPurchase, restoreErr,
		"event", "restore_completed",
	)
}

// ──────────────────────────────────────────────────
// Entitlement hooks
// ──────────────────────────────────────────────────

// OnTierChanged implements plugin.OnTierChanged.
func (e *Extension) OnTierChanged(ctx context.Context, previous, current tier.Tier) error {
	return e.record(ctx, ActionTierChanged, SeverityInfo, OutcomeSuccess,
		ResourceEntitlement, string(current), CategoryEntitlement, nil,
		"previous", string(previous),
		"current", string(current),
	)
}

// OnOwnershipChanged implements plugin.OnOwnershipChanged.
func (e *Extension) OnOwnershipChanged(ctx context.Context, productID string, owned bool) error {
	action := ActionOwnershipGranted
	if !owned {
		action = ActionOwnershipRevoked
	}
	return e.record(ctx, action, SeverityInfo, OutcomeSuccess,
		ResourceEntitlement, productID, CategoryEntitlement, nil,
		"product_id", productID,
		"owned", owned,
	)
}

// OnStatusRefreshed implements plugin.OnStatusRefreshed.
func (e *Extension) OnStatusRefreshed(ctx context.Context, groupID string, current tier.Tier) error {
	return e.record(ctx, ActionStatusRefreshed, SeverityInfo, OutcomeSuccess,
		ResourceEntitlement, groupID, CategoryEntitlement, nil,
		"group_id", groupID,
		"tier", string(current),
	)
}

// ──────────────────────────────────────────────────
// Economy hooks
// ──────────────────────────────────────────────────

// OnConsumableGranted implements plugin.OnConsumableGranted.
func (e *Extension) OnConsumableGranted(ctx context.Context, txnID uint64, productID string, g grant.Grant) error {
	return e.record(ctx, ActionConsumableGranted, SeverityInfo, OutcomeSuccess,
		ResourceEconomy, productID, CategoryEconomy, nil,
		"txn_id", txnID,
		"product_id", productID,
		"kind", string(g.Kind),
		"quantity", g.Quantity,
	)
}

// OnEconomyError implements plugin.OnEconomyError.
func (e *Extension) OnEconomyError(ctx context.Context, txnID uint64, productID string, sinkErr error) error {
	return e.record(ctx, ActionEconomyError, SeverityCritical, OutcomeFailure,
		ResourceEconomy, productID, CategoryEconomy, sinkErr,
		"txn_id", txnID,
		"product_id", productID,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		ID:         id.NewEventID(),
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
