// Package storefront provides a composable in-app purchase entitlement
// engine for Go applications.
//
// Storefront is designed as a library, not a service. Import it directly
// into your application and hand it a platform client. It provides:
//
//   - Ordered entitlement tiers reconciled from subscription state
//   - Exactly-once consumable grants backed by a durable ledger
//   - Convergent non-consumable ownership under duplicate delivery
//   - Finish-only-when-done transaction acknowledgment
//   - Pluggable lifecycle hooks for analytics and audit
//
// # Quick Start
//
// Create an engine with your platform client and a ledger store:
//
//	import (
//	    "github.com/xraph/storefront"
//	    "github.com/xraph/storefront/ledger/file"
//	)
//
//	store := file.New("/var/lib/myapp/ledger.json")
//
//	engine := storefront.New(client, store,
//	    storefront.WithProducts("coins50", "sub.gold", "remove_ads"),
//	    storefront.WithSubscriptionGroup("premium"),
//	)
//
//	if err := engine.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Stop()
//
// # Core Concepts
//
// Tiers order subscription entitlements so reconciliation can pick the
// best active one:
//
//	scheme := tier.NewScheme([]tier.Tier{"free", "silver", "gold"}).
//	    MapProduct("sub.silver", "silver").
//	    MapProduct("sub.gold", "gold")
//
// Grants translate consumable products into economy deposits:
//
//	resolver := grant.NewResolver().
//	    RegisterExact("starter.pack", grant.Grant{Kind: "coins", Quantity: 500}).
//	    RegisterSuffix("coins", "coins")
//
// The economy sink is where grants land; Storefront calls it at least
// once per transaction and records each applied grant so it never deposits
// the same transaction twice:
//
//	sink := grant.SinkFunc(func(ctx context.Context, txnID uint64, productID string, g grant.Grant) error {
//	    return wallet.Deposit(ctx, g.Kind, g.Quantity)
//	})
//
// Read entitlements through the snapshot accessors:
//
//	state := engine.State()
//	if state.Tier == "gold" || state.Owns("remove_ads") {
//	    // unlock premium features
//	}
package storefront
