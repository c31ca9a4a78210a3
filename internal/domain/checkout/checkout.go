package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aspectxlol/uprak-pos/internal/domain/cart"
	"github.com/aspectxlol/uprak-pos/pkg/idr"
)

// Method identifies how a transaction was paid.
type Method string

const (
	MethodCash Method = "CASH"
	MethodQRIS Method = "QRIS"
)

// Sentinel outcomes of a checkout run.
var (
	// ErrCancelled is returned by a Prompter when the operator cancels and
	// by Checkout when the run was aborted. The cart is left untouched.
	ErrCancelled = errors.New("checkout cancelled")
	// ErrEmptyCart rejects checkout before the state machine is entered.
	ErrEmptyCart = errors.New("cart is empty")
)

// Transaction is the immutable record of a completed checkout.
type Transaction struct {
	ID           string
	Timestamp    time.Time
	CustomerName string
	Method       Method
	Lines        []cart.Line
	Total        decimal.Decimal
	CashTendered decimal.Decimal
	Change       decimal.Decimal
	ReceiptPath  string
}

// Prompter is the narrow prompt capability the state machine needs from a
// front-end. Both methods block on the operator and return ErrCancelled
// when the operator backs out, so cancellation is always an explicit
// outcome decided at the call site.
type Prompter interface {
	// Text asks for a single line of free text.
	Text(ctx context.Context, label string) (string, error)
	// Acknowledge shows a message and blocks until the operator confirms.
	Acknowledge(ctx context.Context, message string) error
}

// PayloadEncoder produces the QRIS payment URL for external display.
type PayloadEncoder interface {
	PaymentURL(customerName string, total decimal.Decimal) (string, error)
	// FallbackURL is the legacy raw-amount form, used when encoding fails.
	FallbackURL(total decimal.Decimal) string
}

// ReceiptWriter persists a finalized transaction and returns the record path.
type ReceiptWriter interface {
	Write(ctx context.Context, tx *Transaction) (string, error)
}

type state int

const (
	stateCollectingName state = iota
	stateSelectingMethod
	stateCashCapture
	stateQRISCapture
	stateCompleted
)

// Service runs the checkout state machine over the session cart.
type Service struct {
	cart     *cart.Service
	encoder  PayloadEncoder
	receipts ReceiptWriter
	prompter Prompter

	now   func() time.Time
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the transaction timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the transaction id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a checkout Service with the required collaborators.
func NewService(
	c *cart.Service,
	encoder PayloadEncoder,
	receipts ReceiptWriter,
	prompter Prompter,
	opts ...Option,
) *Service {
	s := &Service{
		cart:     c,
		encoder:  encoder,
		receipts: receipts,
		prompter: prompter,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout drives the state machine CollectingCustomerName ->
// SelectingMethod -> {CashCapture | QRISCapture} -> Completed. Any prompt
// can end the run with ErrCancelled, in which case no receipt is written
// and the cart keeps its exact contents. On success the transaction is
// handed to the receipt writer and the cart is cleared.
func (s *Service) Checkout(ctx context.Context) (*Transaction, error) {
	if s.cart.Empty() {
		return nil, ErrEmptyCart
	}

	tx := &Transaction{
		Total: s.cart.Total(),
	}

	st := stateCollectingName
	for st != stateCompleted {
		var err error
		switch st {
		case stateCollectingName:
			st, err = s.collectName(ctx, tx)
		case stateSelectingMethod:
			st, err = s.selectMethod(ctx, tx)
		case stateCashCapture:
			st, err = s.captureCash(ctx, tx)
		case stateQRISCapture:
			st, err = s.captureQRIS(ctx, tx)
		}
		if err != nil {
			return nil, err
		}
	}

	return s.complete(ctx, tx)
}

func (s *Service) collectName(ctx context.Context, tx *Transaction) (state, error) {
	name, err := s.prompter.Text(ctx, "Customer name (blank for Guest)")
	if err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest"
	}
	tx.CustomerName = name
	return stateSelectingMethod, nil
}

func (s *Service) selectMethod(ctx context.Context, tx *Transaction) (state, error) {
	for {
		input, err := s.prompter.Text(ctx, "Payment method (cash/qris)")
		if err != nil {
			return 0, err
		}
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "cash":
			tx.Method = MethodCash
			return stateCashCapture, nil
		case "qris":
			tx.Method = MethodQRIS
			return stateQRISCapture, nil
		}
		// Anything else reprompts without a state change.
	}
}

func (s *Service) captureCash(ctx context.Context, tx *Transaction) (state, error) {
	label := "Cash received (total " + idr.Format(tx.Total) + ")"
	for {
		input, err := s.prompter.Text(ctx, label)
		if err != nil {
			return 0, err
		}
		tendered, err := decimal.NewFromString(strings.TrimSpace(input))
		if err != nil || tendered.LessThan(tx.Total) {
			continue
		}
		tx.CashTendered = tendered
		tx.Change = tendered.Sub(tx.Total)
		return stateCompleted, nil
	}
}

func (s *Service) captureQRIS(ctx context.Context, tx *Transaction) (state, error) {
	url, err := s.encoder.PaymentURL(tx.CustomerName, tx.Total)
	if err != nil {
		// Payload generation never blocks the sale; fall back to the
		// raw legacy URL.
		zctx.From(ctx).Warn("QRIS payload encoding failed, using fallback URL",
			zap.Error(err))
		url = s.encoder.FallbackURL(tx.Total)
	}

	if err := s.prompter.Acknowledge(ctx, url); err != nil {
		return 0, err
	}

	tx.CashTendered = tx.Total
	tx.Change = decimal.Zero
	return stateCompleted, nil
}

// complete stamps and persists the transaction, then clears the cart. A
// failed receipt write is reported through the prompter and retried on
// request; declining the retry still completes the sale, since payment has
// already been captured.
func (s *Service) complete(ctx context.Context, tx *Transaction) (*Transaction, error) {
	tx.ID = s.newID()
	tx.Timestamp = s.now()
	tx.Lines = s.cart.Lines()

	lg := zctx.From(ctx)
	for {
		path, err := s.receipts.Write(ctx, tx)
		if err == nil {
			tx.ReceiptPath = path
			break
		}

		lg.Error("receipt write failed", zap.String("transaction", tx.ID), zap.Error(err))
		ackErr := s.prompter.Acknowledge(ctx,
			"Receipt write failed: "+err.Error()+". Confirm to retry, cancel to skip the receipt.")
		if ackErr != nil {
			lg.Warn("transaction completed without receipt", zap.String("transaction", tx.ID))
			break
		}
	}

	s.cart.Clear()
	lg.Info("transaction completed",
		zap.String("transaction", tx.ID),
		zap.String("method", string(tx.Method)),
		zap.String("total", tx.Total.String()),
	)
	return tx, nil
}
