// Package grant maps purchased consumable product identifiers to the
// semantic grants an application's economy understands.
package grant

import (
	"context"
	"strconv"
)

// Kind names a consumable category. The namespace is open: applications
// declare their own currencies ("coins", "hints", "energy") as constants.
type Kind string

// Grant is a resolved consumable: what to credit, and how much.
type Grant struct {
	Kind     Kind  `json:"kind"`
	Quantity int64 `json:"quantity"`
}

// Sink durably applies a resolved grant to application-owned state.
//
// The engine calls Apply at-least-once per transaction: a crash between a
// successful Apply and the ledger write causes the platform to redeliver the
// transaction, and Apply runs again. Implementations that cannot tolerate
// that should key their own writes on txnID.
type Sink interface {
	Apply(ctx context.Context, txnID uint64, productID string, g Grant) error
}

// SinkFunc adapts a plain function to a Sink.
type SinkFunc func(ctx context.Context, txnID uint64, productID string, g Grant) error

// Apply implements Sink.
func (f SinkFunc) Apply(ctx context.Context, txnID uint64, productID string, g Grant) error {
	return f(ctx, txnID, productID, g)
}

type suffixRule struct {
	prefix string
	kind   Kind
}

// Resolver maps product identifiers to grants via exact and pattern rules.
//
// Exact rules always take precedence over pattern rules regardless of
// registration order. Pattern rules match identifiers of the form
// prefix + positiveInteger, the integer becoming the grant quantity, so a
// numeric-suffix SKU scheme ("coins10", "coins50", "coins250") needs a
// single registration instead of one per SKU.
//
// Resolver is not safe for concurrent mutation; register all rules during
// application setup, before the engine starts.
type Resolver struct {
	exact map[string]Grant
	rules []suffixRule
}

// NewResolver creates an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{exact: make(map[string]Grant)}
}

// RegisterExact inserts or overwrites an exact-match rule. Last write wins.
func (r *Resolver) RegisterExact(productID string, g Grant) *Resolver {
	r.exact[productID] = g
	return r
}

// RegisterSuffix appends a pattern rule matching prefix + positiveInteger.
// Rules are consulted in registration order.
func (r *Resolver) RegisterSuffix(prefix string, kind Kind) *Resolver {
	r.rules = append(r.rules, suffixRule{prefix: prefix, kind: kind})
	return r
}

// Resolve maps a product identifier to a grant. Exact rules are checked
// first; then pattern rules in registration order, returning the first whose
// prefix matches and whose suffix parses as a positive integer.
func (r *Resolver) Resolve(productID string) (Grant, bool) {
	if g, ok := r.exact[productID]; ok {
		return g, true
	}

	for _, rule := range r.rules {
		if len(productID) <= len(rule.prefix) || productID[:len(rule.prefix)] != rule.prefix {
			continue
		}
		qty, err := strconv.ParseInt(productID[len(rule.prefix):], 10, 64)
		if err != nil || qty <= 0 {
			continue
		}
		return Grant{Kind: rule.kind, Quantity: qty}, true
	}

	return Grant{}, false
}
