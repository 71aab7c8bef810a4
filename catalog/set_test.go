package catalog_test

import (
	"testing"

	"github.com/xraph/storefront/catalog"
	"github.com/xraph/storefront/types"
)

func TestSetSortedByPriceAscending(t *testing.T) {
	s := catalog.NewSet([]catalog.Product{
		{ID: "gold", Price: types.USD(999)},
		{ID: "bronze", Price: types.USD(99)},
		{ID: "silver", Price: types.USD(499)},
	})

	got := s.All()
	want := []string{"bronze", "silver", "gold"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestSetSortStable(t *testing.T) {
	// Equal prices keep fetch order.
	s := catalog.NewSet([]catalog.Product{
		{ID: "a", Price: types.USD(499)},
		{ID: "b", Price: types.USD(499)},
	})

	got := s.All()
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("equal-price order not stable: %q, %q", got[0].ID, got[1].ID)
	}
}

func TestSetLookup(t *testing.T) {
	s := catalog.NewSet([]catalog.Product{
		{ID: "sub.gold", Type: catalog.TypeAutoRenewable, Price: types.USD(999)},
	})

	p, ok := s.Lookup("sub.gold")
	if !ok {
		t.Fatal("expected lookup hit")
	}
	if !p.IsSubscription() {
		t.Error("expected subscription product")
	}

	if _, ok := s.Lookup("missing"); ok {
		t.Error("expected lookup miss")
	}
}

func TestEmptySet(t *testing.T) {
	s := catalog.EmptySet()
	if s.Len() != 0 {
		t.Errorf("expected empty set, len=%d", s.Len())
	}
	if _, ok := s.Lookup("anything"); ok {
		t.Error("empty set should never hit")
	}
}
