// Package receipt persists finalized transactions as plain-text records,
// one file per transaction.
package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"

	"github.com/aspectxlol/uprak-pos/internal/domain/checkout"
	"github.com/aspectxlol/uprak-pos/pkg/idr"
)

const nameWidth = 20

// Writer emits receipt files into a directory. Filenames carry the
// transaction timestamp at second resolution; a second transaction in the
// same second gets a numeric suffix instead of overwriting the first.
type Writer struct {
	dir          string
	merchantName string
}

var _ checkout.ReceiptWriter = (*Writer)(nil)

// NewWriter creates a Writer emitting into dir under the given merchant
// header. The directory is created if missing.
func NewWriter(dir, merchantName string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create receipt directory")
	}
	return &Writer{dir: dir, merchantName: merchantName}, nil
}

// Write renders the transaction and creates its receipt file, returning the
// path. Existing files are never overwritten.
func (w *Writer) Write(ctx context.Context, tx *checkout.Transaction) (string, error) {
	body := w.render(tx)
	stamp := tx.Timestamp.Format("20060102_150405")

	name := fmt.Sprintf("receipt_%s.txt", stamp)
	for n := 2; ; n++ {
		path := filepath.Join(w.dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				name = fmt.Sprintf("receipt_%s_%d.txt", stamp, n)
				continue
			}
			return "", errors.Wrap(err, "create receipt file")
		}

		if _, err := f.WriteString(body); err != nil {
			f.Close()
			return "", errors.Wrap(err, "write receipt")
		}
		if err := f.Close(); err != nil {
			return "", errors.Wrap(err, "close receipt")
		}
		return path, nil
	}
}

func (w *Writer) render(tx *checkout.Transaction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s RECEIPT\n", strings.ToUpper(w.merchantName))
	fmt.Fprintf(&b, "Date: %s\n", tx.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Customer: %s\n", tx.CustomerName)
	fmt.Fprintf(&b, "Payment: %s\n", tx.Method)
	fmt.Fprintf(&b, "Transaction: %s\n\n", tx.ID)

	b.WriteString("Items:\n")
	b.WriteString("ID  Name                 Qty  Price (IDR)   Subtotal (IDR)\n")
	b.WriteString("--  -------------------- --- -------------  --------------\n")
	for _, l := range tx.Lines {
		fmt.Fprintf(&b, "%2d  %-20s %3d %13s  %14s\n",
			l.ProductID, truncate(l.Name, nameWidth), l.Quantity,
			idr.Format(l.Price), idr.Format(l.Subtotal()))
	}

	fmt.Fprintf(&b, "\nTotal:   %s\n", idr.Format(tx.Total))
	if tx.Method == checkout.MethodQRIS {
		b.WriteString("Paid via QRIS\n")
	} else {
		fmt.Fprintf(&b, "Cash:    %s\n", idr.Format(tx.CashTendered))
		fmt.Fprintf(&b, "Change:  %s\n", idr.Format(tx.Change))
	}

	return b.String()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
