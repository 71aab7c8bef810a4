package storefront_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/grant"
	"github.com/xraph/storefront/ledger/memory"
	"github.com/xraph/storefront/tier"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from the package documentation
	t.Run("QuickStartExample", func(t *testing.T) {
		client := newFakeClient()

		// Create store (memory for demo, use the file store in production)
		store := memory.New()

		engine := storefront.New(client, store,
			storefront.WithLogger(slog.Default()),
			storefront.WithProducts("coins50", "sub.gold", "remove_ads"),
			storefront.WithSubscriptionGroup("premium"),
		)

		ctx := context.Background()
		if err := engine.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer engine.Stop()

		engine.LoadProducts(ctx)
	})

	// Test the tier scheme example
	t.Run("TierSchemeExample", func(t *testing.T) {
		scheme := tier.NewScheme([]tier.Tier{"free", "silver", "gold"}).
			MapProduct("sub.silver", "silver").
			MapProduct("sub.gold", "gold")

		if scheme.Floor() != "free" {
			t.Errorf("Floor() = %q, want %q", scheme.Floor(), "free")
		}
		if scheme.Max("silver", "gold") != "gold" {
			t.Error("Max(silver, gold) != gold")
		}
	})

	// Test the grant resolver and economy sink example
	t.Run("GrantResolverExample", func(t *testing.T) {
		resolver := grant.NewResolver().
			RegisterExact("starter.pack", grant.Grant{Kind: "coins", Quantity: 500}).
			RegisterSuffix("coins", "coins")

		deposits := make(map[grant.Kind]int64)
		sink := grant.SinkFunc(func(_ context.Context, _ uint64, _ string, g grant.Grant) error {
			deposits[g.Kind] += g.Quantity
			return nil
		})

		engine := storefront.New(newFakeClient(), memory.New(),
			storefront.WithGrantResolver(resolver),
			storefront.WithEconomySink(sink),
		)
		_ = engine

		g, ok := resolver.Resolve("coins250")
		if !ok || g.Quantity != 250 {
			t.Errorf("Resolve(coins250) = %+v, %v", g, ok)
		}
		g, ok = resolver.Resolve("starter.pack")
		if !ok || g.Quantity != 500 {
			t.Errorf("Resolve(starter.pack) = %+v, %v", g, ok)
		}
	})

	// Test the snapshot accessor example
	t.Run("StateSnapshotExample", func(t *testing.T) {
		engine := storefront.New(newFakeClient(), memory.New())

		state := engine.State()
		if state.Tier != storefront.TierFree {
			t.Errorf("Tier = %q, want %q", state.Tier, storefront.TierFree)
		}
		if state.Owns("remove_ads") {
			t.Error("Owns(remove_ads) = true on a fresh engine")
		}
	})
}
