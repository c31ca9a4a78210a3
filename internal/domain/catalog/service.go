package catalog

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Service owns the in-memory product list and id allocation on top of a
// Store. It is the single writer of the catalog; the list keeps creation
// order.
type Service struct {
	store    Store
	products []Product
	nextID   int64
}

// NewService loads the persisted catalog and prepares the id allocator.
// An absent store yields an empty catalog with the allocator at 1.
func NewService(ctx context.Context, store Store) (*Service, error) {
	products, err := store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}

	var maxID int64
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	return &Service{
		store:    store,
		products: products,
		nextID:   maxID + 1,
	}, nil
}

// Add validates the name and price, assigns the next id, appends the product
// and persists the catalog. The raw price text is parsed here so that
// non-numeric input is rejected the same way as a non-positive amount.
// Nothing is mutated on a validation failure.
func (s *Service) Add(ctx context.Context, name, price string) (Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil || !amount.IsPositive() {
		return Product{}, &ValidationError{Field: "price", Reason: "must be a positive number"}
	}

	p := Product{
		ID:    s.nextID,
		Name:  name,
		Price: amount,
	}
	s.products = append(s.products, p)
	s.nextID++

	if err := s.store.Save(ctx, s.products); err != nil {
		return p, errors.Wrap(err, "save catalog")
	}

	return p, nil
}

// EditResult reports the outcome of an Edit. PriceIgnored is set when a
// price was supplied but was not a positive number; the edit still went
// through with the old price kept.
type EditResult struct {
	Product      Product
	PriceIgnored bool
}

// Edit updates a product in place. Blank fields keep their current values.
// Unlike Add, an invalid supplied price does not fail the edit: the old
// price is kept and the result flags it so the caller can warn the operator.
func (s *Service) Edit(ctx context.Context, id int64, newName, newPrice string) (EditResult, error) {
	idx := -1
	for i := range s.products {
		if s.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return EditResult{}, ErrNotFound
	}

	var result EditResult
	if name := strings.TrimSpace(newName); name != "" {
		s.products[idx].Name = name
	}
	if price := strings.TrimSpace(newPrice); price != "" {
		amount, err := decimal.NewFromString(price)
		if err == nil && amount.IsPositive() {
			s.products[idx].Price = amount
		} else {
			result.PriceIgnored = true
		}
	}
	result.Product = s.products[idx]

	if err := s.store.Save(ctx, s.products); err != nil {
		return result, errors.Wrap(err, "save catalog")
	}

	return result, nil
}

// Get returns the product with the given id.
func (s *Service) Get(id int64) (Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

// List returns the products in creation order. The returned slice is a copy.
func (s *Service) List() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// NextID exposes the allocator position, used by tests and the seed tool.
func (s *Service) NextID() int64 {
	return s.nextID
}
