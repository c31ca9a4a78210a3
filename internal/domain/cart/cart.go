package cart

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/aspectxlol/uprak-pos/internal/domain/catalog"
)

// ErrNotInCart is returned when removing a product that has no cart line.
var ErrNotInCart = errors.New("item not found in cart")

// InvalidQuantityError indicates a non-positive requested quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// Line is a cart entry. Name and Price are snapshotted from the product at
// the moment the line was first created; re-adding the same product merges
// quantities without refreshing the snapshot.
type Line struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// Subtotal is Quantity times the snapshotted unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Service aggregates the session cart. At most one line exists per product;
// lines keep insertion order. The cart is never persisted.
type Service struct {
	catalog *catalog.Service
	lines   []Line
}

// NewService creates an empty cart over the given catalog.
func NewService(cat *catalog.Service) *Service {
	return &Service{catalog: cat}
}

// AddItem resolves the product and merges qty into its line, snapshotting
// name and price on first add. Returns catalog.ErrNotFound for an unknown
// product and InvalidQuantityError for qty <= 0.
func (s *Service) AddItem(productID int64, qty int) (Line, error) {
	if qty <= 0 {
		return Line{}, &InvalidQuantityError{ProductID: productID}
	}

	p, err := s.catalog.Get(productID)
	if err != nil {
		return Line{}, err
	}

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity += qty
			return s.lines[i], nil
		}
	}

	line := Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
	}
	s.lines = append(s.lines, line)
	return line, nil
}

// RemoveItem removes the whole line for the given product.
func (s *Service) RemoveItem(productID int64) (Line, error) {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			removed := s.lines[i]
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return removed, nil
		}
	}
	return Line{}, ErrNotInCart
}

// Lines returns the cart lines in insertion order. The returned slice is a
// copy and safe to keep across a Clear.
func (s *Service) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total is the sum of quantity times snapshotted price over all lines.
func (s *Service) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Empty reports whether the cart has no lines.
func (s *Service) Empty() bool {
	return len(s.lines) == 0
}

// Clear empties the cart. Called after a successful checkout.
func (s *Service) Clear() {
	s.lines = nil
}
