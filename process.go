package storefront

import (
	"context"
	"errors"

	"github.com/xraph/storefront/catalog"
	"github.com/xraph/storefront/ledger"
	"github.com/xraph/storefront/platform"
)

// handleSigned runs one signed transaction through verification, the
// pipeline, and acknowledgment. A transaction is finished if and only if
// its effects are durably applied; anything left unfinished is redelivered
// by the platform.
func (e *Engine) handleSigned(ctx context.Context, st platform.SignedTransaction) {
	txn, err := e.client.VerifyTransaction(ctx, st)
	if err != nil {
		e.logger.Warn("transaction failed verification",
			"error", err,
		)
		return
	}

	e.procMu.Lock()
	finished := e.processTransaction(ctx, txn)
	e.procMu.Unlock()

	e.plugins.EmitTransactionProcessed(ctx, txn, finished)

	if finished {
		if err := e.client.Finish(ctx, st); err != nil {
			// The work is already durable, so redelivery is harmless.
			e.logger.Warn("finish failed, transaction will be redelivered",
				"txn", txn.ID,
				"error", err,
			)
		}
	}
}

// processTransaction applies a verified transaction and reports whether it
// may be finished.
func (e *Engine) processTransaction(ctx context.Context, txn platform.Transaction) bool {
	switch txn.ProductType {
	case catalog.TypeConsumable:
		return e.processConsumable(ctx, txn)
	case catalog.TypeNonConsumable:
		return e.processNonConsumable(ctx, txn)
	case catalog.TypeAutoRenewable:
		return e.processRenewable(ctx, txn)
	case catalog.TypeNonRenewing:
		// Fixed-duration purchases carry no renewal state; nothing to apply
		// beyond acknowledging receipt.
		e.logger.Debug("finishing non-renewing transaction",
			"txn", txn.ID,
			"product", txn.ProductID,
		)
		return true
	default:
		e.logger.Warn("unknown product type, leaving transaction unfinished",
			"txn", txn.ID,
			"type", txn.ProductType,
		)
		return false
	}
}

// processConsumable applies a consumable grant exactly once. The sink call
// is at-least-once across process lifetimes; the ledger write makes the
// recorded grant at-most-once, and the transaction is only finished once
// both have happened.
func (e *Engine) processConsumable(ctx context.Context, txn platform.Transaction) bool {
	if txn.Revoked() {
		e.logger.Info("consumable revoked, finishing without grant",
			"txn", txn.ID,
			"product", txn.ProductID,
		)
		return true
	}

	e.mu.RLock()
	_, done := e.processed[txn.ID]
	e.mu.RUnlock()
	if done {
		e.logger.Debug("duplicate consumable delivery",
			"txn", txn.ID,
			"product", txn.ProductID,
		)
		return true
	}

	g, ok := e.resolver.Resolve(txn.ProductID)
	if !ok {
		e.logger.Warn("no grant rule for consumable, finishing without grant",
			"txn", txn.ID,
			"product", txn.ProductID,
		)
		return true
	}

	if e.sink == nil {
		e.logger.Warn("no economy sink configured, finishing without grant",
			"txn", txn.ID,
			"product", txn.ProductID,
		)
		return true
	}

	if err := e.sink.Apply(ctx, txn.ID, txn.ProductID, g); err != nil {
		e.plugins.EmitEconomyError(ctx, txn.ID, txn.ProductID, err)
		e.logger.Error("economy sink rejected grant, transaction stays unfinished",
			"txn", txn.ID,
			"product", txn.ProductID,
			"error", err,
		)
		return false
	}

	rec := ledger.NewRecord(txn.ID, txn.ProductID, string(g.Kind), g.Quantity)
	if err := e.store.RecordProcessed(ctx, rec); err != nil && !errors.Is(err, ErrAlreadyRecorded) {
		// Grant applied but not recorded. Leave unfinished so redelivery
		// retries the write; the sink contract is at-least-once.
		e.logger.Error("ledger write failed, transaction stays unfinished",
			"txn", txn.ID,
			"product", txn.ProductID,
			"error", err,
		)
		return false
	}

	e.mu.Lock()
	e.processed[txn.ID] = struct{}{}
	e.mu.Unlock()

	e.plugins.EmitConsumableGranted(ctx, txn.ID, txn.ProductID, g)
	e.logger.Info("consumable granted",
		"txn", txn.ID,
		"product", txn.ProductID,
		"kind", g.Kind,
		"quantity", g.Quantity,
	)
	return true
}

// processNonConsumable converges ownership with the platform's view.
// Grants and revocations are keyed by transaction id, so the grant and its
// revocation land on the same state regardless of delivery order or
// duplicate delivery: a revoked transaction never re-grants.
func (e *Engine) processNonConsumable(ctx context.Context, txn platform.Transaction) bool {
	e.mu.Lock()
	had := e.ownsLocked(txn.ProductID)

	if txn.Revoked() {
		e.revokedTxns[txn.ID] = struct{}{}
		delete(e.ownedTxns, txn.ID)
	} else if _, revoked := e.revokedTxns[txn.ID]; !revoked {
		e.ownedTxns[txn.ID] = txn.ProductID
	}

	owned := e.ownsLocked(txn.ProductID)
	e.mu.Unlock()

	if had != owned {
		e.plugins.EmitOwnershipChanged(ctx, txn.ProductID, owned)
		e.logger.Info("ownership changed",
			"txn", txn.ID,
			"product", txn.ProductID,
			"owned", owned,
		)
	}
	return true
}

// processRenewable refreshes subscription state from the platform. The
// tier is recomputed from the full status snapshot rather than from the
// single transaction, so a stale or duplicate delivery cannot regress it.
func (e *Engine) processRenewable(ctx context.Context, txn platform.Transaction) bool {
	if err := e.RefreshStatus(ctx, txn.GroupID); err != nil {
		if errors.Is(err, ErrNoSubscriptionGroup) {
			e.logger.Warn("auto-renewable transaction without subscription group",
				"txn", txn.ID,
				"product", txn.ProductID,
			)
			return true
		}
		// Keep the previous subscription details; the refresh is retried
		// on the next status change or explicit call.
		e.logger.Warn("status refresh failed after renewal transaction",
			"txn", txn.ID,
			"error", err,
		)
	}
	return true
}
