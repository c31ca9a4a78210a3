// Package qris builds the payment payload URL for the QRIS rail. The
// contract ends at producing the URL string; rendering it as a QR glyph is
// the front-end's job and the consuming payment page is external.
package qris

import (
	"encoding/base64"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Encoder serializes {merchantName, customerName, price} to canonical JSON
// and embeds it base64-encoded as the data query parameter of the payment
// base URL. Identical inputs always produce the identical string: the field
// order is fixed and the unpadded URL-safe base64 alphabet needs no
// percent-escaping.
type Encoder struct {
	merchantName string
	baseURL      string
}

// New creates an Encoder for the given merchant and payment page base URL.
func New(merchantName, baseURL string) *Encoder {
	return &Encoder{
		merchantName: merchantName,
		baseURL:      baseURL,
	}
}

// PaymentURL returns the full payment URL for the given customer and total.
// The price travels as the integer-valued total in text form.
func (e *Encoder) PaymentURL(customerName string, total decimal.Decimal) (string, error) {
	u, err := url.Parse(e.baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parse payment base URL")
	}

	var enc jx.Encoder
	enc.ObjStart()
	enc.FieldStart("merchantName")
	enc.Str(e.merchantName)
	enc.FieldStart("customerName")
	enc.Str(customerName)
	enc.FieldStart("price")
	enc.Str(strconv.FormatInt(total.IntPart(), 10))
	enc.ObjEnd()

	q := u.Query()
	q.Set("data", base64.RawURLEncoding.EncodeToString(enc.Bytes()))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// FallbackURL is the legacy unstructured form with the raw integer amount in
// the query string. Used only when PaymentURL fails, so a broken payload
// never blocks a sale.
func (e *Encoder) FallbackURL(total decimal.Decimal) string {
	return e.baseURL + "?amount=" + strconv.FormatInt(total.IntPart(), 10)
}
