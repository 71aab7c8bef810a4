package tier_test

import (
	"testing"

	"github.com/xraph/storefront/tier"
)

func newScheme(t *testing.T) *tier.Scheme {
	t.Helper()
	return tier.NewScheme([]tier.Tier{"none", "bronze", "silver", "gold"})
}

func TestFloor(t *testing.T) {
	s := newScheme(t)
	if s.Floor() != "none" {
		t.Errorf("expected floor %q, got %q", "none", s.Floor())
	}
}

func TestPositionalOrdering(t *testing.T) {
	s := newScheme(t)

	tests := []struct {
		name string
		a, b tier.Tier
		sign int
	}{
		{"floor below bronze", "none", "bronze", -1},
		{"bronze below gold", "bronze", "gold", -1},
		{"gold above silver", "gold", "silver", 1},
		{"equal", "silver", "silver", 0},
		{"undeclared below floor", "platinum", "none", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Compare(tt.a, tt.b)
			switch {
			case tt.sign < 0 && got >= 0:
				t.Errorf("Compare(%q, %q): got %d, want negative", tt.a, tt.b, got)
			case tt.sign > 0 && got <= 0:
				t.Errorf("Compare(%q, %q): got %d, want positive", tt.a, tt.b, got)
			case tt.sign == 0 && got != 0:
				t.Errorf("Compare(%q, %q): got %d, want 0", tt.a, tt.b, got)
			}
		})
	}
}

func TestMax(t *testing.T) {
	s := newScheme(t)
	if got := s.Max("bronze", "gold"); got != "gold" {
		t.Errorf("Max: got %q, want gold", got)
	}
	if got := s.Max("gold", "bronze"); got != "gold" {
		t.Errorf("Max: got %q, want gold", got)
	}
}

func TestProductAndLevelMappings(t *testing.T) {
	s := newScheme(t)
	s.MapProduct("sub.gold.yearly", "gold").
		MapProduct("sub.silver.monthly", "silver").
		MapLevel(1, "gold").
		MapLevel(2, "silver")

	if got, ok := s.FromProduct("sub.gold.yearly"); !ok || got != "gold" {
		t.Errorf("FromProduct: got %q, %v", got, ok)
	}
	if _, ok := s.FromProduct("sub.unknown"); ok {
		t.Error("FromProduct should miss for unregistered identifier")
	}

	if got, ok := s.FromLevel(2); !ok || got != "silver" {
		t.Errorf("FromLevel: got %q, %v", got, ok)
	}
	if _, ok := s.FromLevel(9); ok {
		t.Error("FromLevel should miss for unregistered level")
	}
}

func TestMappingLastWriteWins(t *testing.T) {
	s := newScheme(t)
	s.MapProduct("sub.pro", "bronze")
	s.MapProduct("sub.pro", "gold")

	if got, _ := s.FromProduct("sub.pro"); got != "gold" {
		t.Errorf("expected last registration to win, got %q", got)
	}
}

func TestCustomComparator(t *testing.T) {
	// Reverse the positional order on purpose.
	rank := map[tier.Tier]int{"none": 3, "bronze": 2, "silver": 1, "gold": 0}
	s := tier.NewScheme(
		[]tier.Tier{"none", "bronze", "silver", "gold"},
		tier.WithComparator(func(a, b tier.Tier) int { return rank[a] - rank[b] }),
	)

	if got := s.Max("bronze", "gold"); got != "bronze" {
		t.Errorf("custom comparator ignored: got %q", got)
	}
}

func TestSchemePanics(t *testing.T) {
	t.Run("empty declaration", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for empty tier set")
			}
		}()
		tier.NewScheme(nil)
	})

	t.Run("duplicate tier", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for duplicate tier")
			}
		}()
		tier.NewScheme([]tier.Tier{"none", "gold", "gold"})
	})

	t.Run("undeclared mapping", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic mapping to undeclared tier")
			}
		}()
		newScheme(t).MapProduct("sub.x", "platinum")
	})
}
