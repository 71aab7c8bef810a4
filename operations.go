package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/storefront/catalog"
	"github.com/xraph/storefront/platform"
)

// LoadProducts fetches catalog metadata and replaces the cached set. With
// no arguments it loads the identifiers configured via WithProducts; an
// explicit identifier set overrides them for this load. Failures keep the
// previous catalog; a session that briefly cannot reach the platform keeps
// selling what it knows.
func (e *Engine) LoadProducts(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		ids = e.productIDs
	}
	if len(ids) == 0 {
		e.logger.Debug("no product ids configured, skipping load")
		return
	}

	e.mu.Lock()
	e.phase = PhaseLoadingProducts
	e.mu.Unlock()

	products, err := e.client.FetchProducts(ctx, ids)

	e.mu.Lock()
	e.phase = PhaseIdle
	if err == nil {
		e.products = catalog.NewSet(products)
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("product load failed, keeping previous catalog",
			"error", err,
		)
		return
	}

	e.plugins.EmitProductsLoaded(ctx, products)
	e.logger.Info("products loaded",
		"requested", len(ids),
		"resolved", len(products),
	)
}

// Purchase runs the platform purchase flow for a product. Cancelled and
// pending are normal outcomes; failures come back as a UserError with
// presentation-ready strings.
//
// The product must be present in the loaded catalog. That check happens
// before any platform call, so a stale UI can never start a flow for a
// product this session cannot deliver.
func (e *Engine) Purchase(ctx context.Context, productID string) (platform.PurchaseOutcome, error) {
	p, ok := e.Product(productID)
	if !ok {
		return "", NewUserError(
			"Product Unavailable",
			"this product is not available right now",
			ErrProductNotAvailable,
		)
	}

	res, err := e.client.Purchase(ctx, p.ID)
	if err != nil {
		e.logger.Error("purchase flow failed",
			"product", productID,
			"error", err,
		)
		return "", NewUserError(
			"Purchase Failed",
			"the purchase could not be completed",
			fmt.Errorf("%w: %v", ErrPurchaseFailed, err),
		)
	}

	if res.Outcome == platform.PurchaseSuccess {
		e.handleSigned(ctx, res.Transaction)
	}

	e.plugins.EmitPurchaseCompleted(ctx, productID, res.Outcome)
	e.logger.Info("purchase completed",
		"product", productID,
		"outcome", res.Outcome,
	)
	return res.Outcome, nil
}

// Restore forces a full purchase-history replay. Restored transactions
// arrive on the platform streams and run through the normal pipeline, so
// restore itself never grants anything directly. When a subscription group
// is configured, a successful sync is followed by a status refresh.
func (e *Engine) Restore(ctx context.Context) {
	e.mu.Lock()
	e.phase = PhaseRestoring
	e.mu.Unlock()

	err := e.client.Sync(ctx)

	e.mu.Lock()
	e.phase = PhaseIdle
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("restore failed",
			"error", err,
		)
	} else if rerr := e.RefreshStatus(ctx, ""); rerr != nil && !errors.Is(rerr, ErrNoSubscriptionGroup) {
		e.logger.Warn("status refresh after restore failed",
			"error", rerr,
		)
	}
	e.plugins.EmitRestoreCompleted(ctx, err)
}
