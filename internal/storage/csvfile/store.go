// Package csvfile persists the product catalog as a CSV file with an
// id,name,price header row.
package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/aspectxlol/uprak-pos/internal/domain/catalog"
)

var header = []string{"id", "name", "price"}

// Store reads and writes the whole catalog file on every operation.
type Store struct {
	path string
}

var _ catalog.Store = (*Store)(nil)

// New creates a Store over the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads all persisted products in file order. A missing file is an
// empty catalog; a present but unreadable or malformed file is an error.
func (s *Store) Load(_ context.Context) ([]catalog.Product, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "open catalog file")
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	products := make([]catalog.Product, 0, len(rows)-1)
	for _, row := range rows[1:] { // skip header
		if len(row) != 3 {
			return nil, errors.Errorf("malformed catalog row: %v", row)
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse product id %q", row[0])
		}
		price, err := decimal.NewFromString(row[2])
		if err != nil {
			return nil, errors.Wrapf(err, "parse product price %q", row[2])
		}
		products = append(products, catalog.Product{
			ID:    id,
			Name:  row[1],
			Price: price,
		})
	}

	return products, nil
}

// Save overwrites the file with the complete product list. The write is not
// atomic: a crash mid-write can truncate the store. Known limitation.
func (s *Store) Save(_ context.Context, products []catalog.Product) error {
	f, err := os.Create(s.path)
	if err != nil {
		return errors.Wrap(err, "create catalog file")
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return errors.Wrap(err, "write catalog header")
	}
	for _, p := range products {
		row := []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Price.String(),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return errors.Wrap(err, "write catalog row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return errors.Wrap(err, "flush catalog file")
	}

	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close catalog file")
	}
	return nil
}
