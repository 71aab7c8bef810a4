package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/storefront/platform"
	"github.com/xraph/storefront/tier"
)

// tierFor maps a product to its entitlement tier: an explicit product
// mapping first, then the cached product's group level, then the floor.
func (e *Engine) tierFor(productID string) tier.Tier {
	if t, ok := e.scheme.FromProduct(productID); ok {
		return t
	}
	if p, ok := e.Product(productID); ok && p.IsSubscription() {
		if t, ok := e.scheme.FromLevel(p.GroupLevel); ok {
			return t
		}
	}
	return e.scheme.Floor()
}

// setTier swaps the reconciled tier and emits a change event when it moved.
func (e *Engine) setTier(ctx context.Context, t tier.Tier) {
	e.mu.Lock()
	prev := e.tier
	e.tier = t
	e.mu.Unlock()

	if prev != t {
		e.plugins.EmitTierChanged(ctx, prev, t)
		e.logger.Info("tier changed",
			"previous", prev,
			"current", t,
		)
	}
}

// outranks decides between two tier candidates. Higher tier wins; within a
// tier the later expiration wins; a full tie goes to the challenger, so the
// last record encountered prevails.
func (e *Engine) outranks(challengerTier tier.Tier, challengerExpiry *time.Time, incumbentTier tier.Tier, incumbentExpiry *time.Time) bool {
	if cmp := e.scheme.Compare(challengerTier, incumbentTier); cmp != 0 {
		return cmp > 0
	}

	var ce, ie time.Time
	if challengerExpiry != nil {
		ce = *challengerExpiry
	}
	if incumbentExpiry != nil {
		ie = *incumbentExpiry
	}
	if !ce.Equal(ie) {
		return ce.After(ie)
	}
	return true
}

// reconcileEntitlements rebuilds tier and ownership from a verified
// entitlements snapshot. An empty snapshot means no entitlements: the tier
// drops to the floor and subscription details clear.
func (e *Engine) reconcileEntitlements(ctx context.Context, txns []platform.Transaction) {
	var (
		bestTier   tier.Tier
		bestExpiry *time.Time
		haveSub    bool
	)

	for _, txn := range txns {
		switch {
		case txn.ProductType == "" || txn.Revoked():
			continue
		case txn.ProductType.IsOwnable():
			e.processNonConsumable(ctx, txn)
		case txn.ProductType.IsRenewable():
			t := e.tierFor(txn.ProductID)
			if !haveSub || e.outranks(t, txn.ExpiresAt, bestTier, bestExpiry) {
				bestTier, bestExpiry, haveSub = t, txn.ExpiresAt, true
			}
		}
	}

	if !haveSub {
		e.mu.Lock()
		e.sub = nil
		e.mu.Unlock()
		e.setTier(ctx, e.scheme.Floor())
		e.logger.Debug("no active entitlements, tier at floor")
		return
	}

	e.setTier(ctx, bestTier)
	e.logger.Debug("entitlements reconciled",
		"tier", bestTier,
		"count", len(txns),
	)
}

// RefreshStatus fetches a subscription group's status records, verifies
// them, and reconciles the tier and subscription details. On fetch failure
// the previous details are retained.
//
// An empty groupID refreshes the group configured via WithSubscriptionGroup
// or remembered from an earlier call; a non-empty one is remembered for
// subsequent refreshes.
func (e *Engine) RefreshStatus(ctx context.Context, groupID string) error {
	e.mu.Lock()
	if groupID == "" {
		groupID = e.groupID
	} else {
		e.groupID = groupID
	}
	e.mu.Unlock()

	if groupID == "" {
		return ErrNoSubscriptionGroup
	}

	statuses, err := e.client.Status(ctx, groupID)
	if err != nil {
		return fmt.Errorf("storefront: fetch subscription status: %w", err)
	}

	type candidate struct {
		txn     platform.Transaction
		state   platform.RenewalState
		renewal platform.SignedRenewal
		t       tier.Tier
	}

	var best *candidate
	for _, st := range statuses {
		if !e.activeStates[st.State] {
			continue
		}
		txn, err := e.client.VerifyTransaction(ctx, st.Transaction)
		if err != nil {
			e.logger.Warn("dropping unverifiable status record",
				"state", st.State,
				"error", err,
			)
			continue
		}
		if txn.Revoked() {
			continue
		}

		c := candidate{txn: txn, state: st.State, renewal: st.Renewal, t: e.tierFor(txn.ProductID)}
		if best == nil || e.outranks(c.t, c.txn.ExpiresAt, best.t, best.txn.ExpiresAt) {
			best = &c
		}
	}

	if best == nil {
		e.mu.Lock()
		e.sub = nil
		e.mu.Unlock()
		floor := e.scheme.Floor()
		e.setTier(ctx, floor)
		e.plugins.EmitStatusRefreshed(ctx, groupID, floor)
		e.logger.Info("no active subscription in group",
			"group", groupID,
		)
		return nil
	}

	renewal, err := e.client.VerifyRenewal(ctx, best.renewal)
	if err != nil {
		// Unverifiable renewal info invalidates the whole detail record.
		// The tier still follows the verified transaction; only the
		// details clear.
		e.logger.Warn("clearing subscription details, renewal info failed verification",
			"product", best.txn.ProductID,
			"error", err,
		)
		e.mu.Lock()
		e.sub = nil
		e.mu.Unlock()
		e.setTier(ctx, best.t)
		e.plugins.EmitStatusRefreshed(ctx, groupID, best.t)
		return nil
	}

	details := &SubscriptionDetails{
		Tier:               best.t,
		ProductID:          best.txn.ProductID,
		State:              best.state,
		ExpiresAt:          best.txn.ExpiresAt,
		IsIntroOffer:       best.txn.IsIntroOffer,
		WillAutoRenew:      renewal.WillAutoRenew,
		AutoRenewProductID: renewal.AutoRenewProductID,
	}
	if p, ok := e.Product(best.txn.ProductID); ok {
		details.ActiveProduct = &p
	}

	e.mu.Lock()
	e.sub = details
	e.mu.Unlock()
	e.setTier(ctx, best.t)

	e.plugins.EmitStatusRefreshed(ctx, groupID, best.t)
	e.logger.Info("subscription status refreshed",
		"group", groupID,
		"tier", best.t,
		"product", best.txn.ProductID,
		"state", best.state,
	)
	return nil
}
