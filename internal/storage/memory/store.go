// Package memory provides an in-memory catalog store for tests and
// throwaway sessions.
package memory

import (
	"context"

	"github.com/aspectxlol/uprak-pos/internal/domain/catalog"
)

// Store keeps the catalog in process memory only.
type Store struct {
	products []catalog.Product
}

var _ catalog.Store = (*Store)(nil)

// New creates a Store optionally seeded with products.
func New(products ...catalog.Product) *Store {
	return &Store{products: products}
}

func (s *Store) Load(_ context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *Store) Save(_ context.Context, products []catalog.Product) error {
	s.products = make([]catalog.Product, len(products))
	copy(s.products, products)
	return nil
}
