package catalog

import "sort"

// Set is a session product cache. A reload replaces the whole set rather
// than merging, and the contents are kept sorted ascending by price so
// presentation order is deterministic.
type Set struct {
	products []Product
	byID     map[string]int
}

// NewSet builds a Set from freshly fetched metadata, sorting ascending by
// price. The input slice is not retained.
func NewSet(products []Product) *Set {
	s := &Set{
		products: make([]Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(s.products, products)

	sort.SliceStable(s.products, func(i, j int) bool {
		return s.products[i].Price.LessThan(s.products[j].Price)
	})

	for i, p := range s.products {
		s.byID[p.ID] = i
	}

	return s
}

// EmptySet returns a Set with no products.
func EmptySet() *Set {
	return &Set{byID: make(map[string]int)}
}

// Lookup returns the product with the given identifier.
func (s *Set) Lookup(productID string) (Product, bool) {
	i, ok := s.byID[productID]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// All returns the products sorted ascending by price.
func (s *Set) All() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len returns the number of cached products.
func (s *Set) Len() int {
	return len(s.products)
}
