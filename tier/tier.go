// Package tier defines the ordered access levels an application grants
// through its subscription catalog.
//
// An application declares a closed set of tiers once, at startup; the first
// declared tier is the floor ("no access") value. Ordering is positional
// unless a custom comparator is supplied, and never changes at runtime;
// only the engine's notion of the *current* tier moves.
package tier

import "fmt"

// Tier is an application-defined access level.
type Tier string

// Comparator orders two tiers: negative if a < b, zero if equal,
// positive if a > b. It must implement a strict total order over the
// declared set.
type Comparator func(a, b Tier) int

// Scheme is the tier ordering contract: a closed, totally ordered tier set
// plus the mappings used to resolve a tier from platform data.
//
// Resolution falls back in fixed order: explicit product-identifier mapping
// first (verifiable without product metadata), then subscription-group level,
// then the floor.
type Scheme struct {
	ordered  []Tier
	rank     map[Tier]int
	compare  Comparator
	products map[string]Tier
	levels   map[int]Tier
}

// Option configures a Scheme.
type Option func(*Scheme)

// WithComparator replaces positional ordering with a custom comparator.
// The comparator must be a strict total order consistent across the whole
// declared set; it is fixed for the lifetime of the scheme.
func WithComparator(cmp Comparator) Option {
	return func(s *Scheme) {
		s.compare = cmp
	}
}

// NewScheme declares the application's tier set in ascending order.
// The first tier is the floor value. It panics if no tiers are declared or
// a tier is declared twice (programming error in static app configuration).
func NewScheme(tiers []Tier, opts ...Option) *Scheme {
	if len(tiers) == 0 {
		panic("tier: scheme requires at least a floor tier")
	}

	s := &Scheme{
		ordered:  make([]Tier, len(tiers)),
		rank:     make(map[Tier]int, len(tiers)),
		products: make(map[string]Tier),
		levels:   make(map[int]Tier),
	}
	copy(s.ordered, tiers)

	for i, t := range tiers {
		if _, dup := s.rank[t]; dup {
			panic(fmt.Sprintf("tier: duplicate tier %q", t))
		}
		s.rank[t] = i
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Floor returns the designated no-access tier.
func (s *Scheme) Floor() Tier {
	return s.ordered[0]
}

// Tiers returns the declared tier set in ascending order.
func (s *Scheme) Tiers() []Tier {
	out := make([]Tier, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Contains reports whether t belongs to the declared set.
func (s *Scheme) Contains(t Tier) bool {
	_, ok := s.rank[t]
	return ok
}

// MapProduct registers an explicit product-identifier mapping.
// Last write wins. It panics if the tier was not declared.
func (s *Scheme) MapProduct(productID string, t Tier) *Scheme {
	s.mustContain(t)
	s.products[productID] = t
	return s
}

// MapLevel registers a subscription-group level mapping.
// Last write wins. It panics if the tier was not declared.
func (s *Scheme) MapLevel(level int, t Tier) *Scheme {
	s.mustContain(t)
	s.levels[level] = t
	return s
}

// FromProduct resolves a tier from a product identifier mapping.
func (s *Scheme) FromProduct(productID string) (Tier, bool) {
	t, ok := s.products[productID]
	return t, ok
}

// FromLevel resolves a tier from a platform subscription-group level.
func (s *Scheme) FromLevel(level int) (Tier, bool) {
	t, ok := s.levels[level]
	return t, ok
}

// Compare orders two declared tiers: negative if a < b, zero if equal,
// positive if a > b. Undeclared tiers rank below the floor so a corrupt
// value can never win a reconciliation.
func (s *Scheme) Compare(a, b Tier) int {
	if s.compare != nil {
		return s.compare(a, b)
	}

	ra, aok := s.rank[a]
	rb, bok := s.rank[b]
	if !aok {
		ra = -1
	}
	if !bok {
		rb = -1
	}
	return ra - rb
}

// Max returns the greater of two tiers under the scheme order.
func (s *Scheme) Max(a, b Tier) Tier {
	if s.Compare(a, b) >= 0 {
		return a
	}
	return b
}

func (s *Scheme) mustContain(t Tier) {
	if !s.Contains(t) {
		panic(fmt.Sprintf("tier: %q is not a declared tier", t))
	}
}
