package catalog

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for sale.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// ValidationError indicates rejected operator input for a catalog operation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Store persists the complete catalog. Load returns an empty slice when no
// store exists yet; any other failure is an error. Save overwrites the
// previous contents.
type Store interface {
	Load(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, products []Product) error
}
