// Package idr formats amounts per the Indonesian Rupiah display convention:
// whole units only, dots as thousands separators, "Rp " prefix.
package idr

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// Format truncates the amount to whole rupiah and renders it with thousands
// grouping, e.g. 1234567 -> "Rp 1.234.567".
func Format(amount decimal.Decimal) string {
	return printer.Sprintf("Rp %d", amount.IntPart())
}
