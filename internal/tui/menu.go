// Package tui is the terminal front-end: the main menu loop and the line
// prompter the checkout state machine runs against. It is presentation
// only; all sequencing and validation rules live in the domain packages.
package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/aspectxlol/uprak-pos/internal/domain/cart"
	"github.com/aspectxlol/uprak-pos/internal/domain/catalog"
	"github.com/aspectxlol/uprak-pos/internal/domain/checkout"
	"github.com/aspectxlol/uprak-pos/pkg/idr"
)

// Command enumerates the menu surface. The numeric values are the operator
// selections.
type Command int

const (
	CommandExit Command = iota
	CommandAddProduct
	CommandEditProduct
	CommandListProducts
	CommandAddToCart
	CommandRemoveFromCart
	CommandShowCart
	CommandCheckout
)

var commandLabels = map[Command]string{
	CommandExit:           "Exit",
	CommandAddProduct:     "Add Product",
	CommandEditProduct:    "Edit Product",
	CommandListProducts:   "List Products",
	CommandAddToCart:      "Add to Cart",
	CommandRemoveFromCart: "Remove from Cart",
	CommandShowCart:       "Show Cart",
	CommandCheckout:       "Checkout",
}

// Menu drives the operator session: render the command list, dispatch the
// selection, repeat. Unrecognized selections reprompt; the loop never exits
// abnormally.
type Menu struct {
	prompter *Prompter
	catalog  *catalog.Service
	cart     *cart.Service
	checkout *checkout.Service

	handlers map[Command]func(ctx context.Context) error
}

// NewMenu wires the menu over the domain services.
func NewMenu(
	prompter *Prompter,
	cat *catalog.Service,
	c *cart.Service,
	co *checkout.Service,
) *Menu {
	m := &Menu{
		prompter: prompter,
		catalog:  cat,
		cart:     c,
		checkout: co,
	}
	m.handlers = map[Command]func(ctx context.Context) error{
		CommandAddProduct:     m.addProduct,
		CommandEditProduct:    m.editProduct,
		CommandListProducts:   m.listProducts,
		CommandAddToCart:      m.addToCart,
		CommandRemoveFromCart: m.removeFromCart,
		CommandShowCart:       m.showCart,
		CommandCheckout:       m.runCheckout,
	}
	return m
}

// Run loops until the operator picks Exit or the context is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		m.renderMenu()

		input, err := m.prompter.Text(ctx, "Select an option")
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, errInputClosed) {
				return nil
			}
			m.warnf("Invalid option.")
			continue
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < int(CommandExit) || n > int(CommandCheckout) {
			m.warnf("Invalid option.")
			continue
		}
		cmd := Command(n)
		if cmd == CommandExit {
			m.printf("Goodbye!")
			return nil
		}

		if err := m.handlers[cmd](ctx); err != nil {
			switch {
			case errors.Is(err, checkout.ErrCancelled):
				m.warnf("Cancelled. Returning to main menu...")
			default:
				m.warnf("%v", err)
			}
		}
	}
}

func (m *Menu) renderMenu() {
	m.printf("\n=== SCHOOL POS SYSTEM ===")
	for cmd := CommandAddProduct; cmd <= CommandCheckout; cmd++ {
		m.printf("%d. %s", cmd, commandLabels[cmd])
	}
	m.printf("%d. %s", CommandExit, commandLabels[CommandExit])
}

func (m *Menu) addProduct(ctx context.Context) error {
	name, err := m.prompter.Text(ctx, "Product name")
	if err != nil {
		return err
	}
	price, err := m.prompter.Text(ctx, "Product price")
	if err != nil {
		return err
	}

	p, err := m.catalog.Add(ctx, name, price)
	if err != nil {
		return err
	}
	m.printf("Product %q added with ID %d", p.Name, p.ID)
	return nil
}

func (m *Menu) editProduct(ctx context.Context) error {
	products := m.catalog.List()
	if len(products) == 0 {
		m.warnf("No products to edit.")
		return nil
	}
	m.renderProducts(products)

	id, err := m.promptID(ctx, "Enter product ID to edit")
	if err != nil {
		return err
	}
	name, err := m.prompter.Text(ctx, "New name (blank to keep)")
	if err != nil {
		return err
	}
	price, err := m.prompter.Text(ctx, "New price (blank to keep)")
	if err != nil {
		return err
	}

	result, err := m.catalog.Edit(ctx, id, name, price)
	if err != nil {
		return err
	}
	if result.PriceIgnored {
		m.warnf("Invalid price. Keeping old price.")
	}
	m.printf("Product updated.")
	return nil
}

func (m *Menu) listProducts(context.Context) error {
	products := m.catalog.List()
	if len(products) == 0 {
		m.warnf("No products available.")
		return nil
	}
	m.renderProducts(products)
	return nil
}

func (m *Menu) addToCart(ctx context.Context) error {
	products := m.catalog.List()
	if len(products) == 0 {
		m.warnf("No products available.")
		return nil
	}
	m.renderProducts(products)

	id, err := m.promptID(ctx, "Enter product ID to add")
	if err != nil {
		return err
	}
	qtyInput, err := m.prompter.Text(ctx, "Quantity")
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(qtyInput)
	if err != nil {
		return errors.New("invalid quantity: enter a positive integer")
	}

	line, err := m.cart.AddItem(id, qty)
	if err != nil {
		return err
	}
	m.printf("Added %d x %s to cart.", qty, line.Name)
	return nil
}

func (m *Menu) removeFromCart(ctx context.Context) error {
	if m.cart.Empty() {
		m.warnf("Cart is empty.")
		return nil
	}
	m.renderCart()

	id, err := m.promptID(ctx, "Enter product ID to remove")
	if err != nil {
		return err
	}
	removed, err := m.cart.RemoveItem(id)
	if err != nil {
		return err
	}
	m.printf("Removed %s from cart.", removed.Name)
	return nil
}

func (m *Menu) showCart(context.Context) error {
	if m.cart.Empty() {
		m.warnf("Cart is empty.")
		return nil
	}
	m.renderCart()
	return nil
}

func (m *Menu) runCheckout(ctx context.Context) error {
	if m.cart.Empty() {
		m.warnf("Cart is empty.")
		return nil
	}
	m.renderCart()

	tx, err := m.checkout.Checkout(ctx)
	if err != nil {
		return err
	}

	if tx.Method == checkout.MethodCash {
		m.printf("Change: %s", idr.Format(tx.Change))
	}
	if tx.ReceiptPath != "" {
		m.printf("Receipt saved as %s", tx.ReceiptPath)
	} else {
		m.warnf("Transaction completed without a receipt.")
	}
	return nil
}

func (m *Menu) promptID(ctx context.Context, label string) (int64, error) {
	input, err := m.prompter.Text(ctx, label)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, errors.New("invalid product ID: enter an integer")
	}
	return id, nil
}

func (m *Menu) renderProducts(products []catalog.Product) {
	m.printf("ID  Name                 Price (IDR)")
	m.printf("--  -------------------- -------------")
	for _, p := range products {
		m.printf("%2d  %-20s %13s", p.ID, clip(p.Name), idr.Format(p.Price))
	}
}

func (m *Menu) renderCart() {
	m.printf("ID  Name                 Qty  Price (IDR)   Subtotal (IDR)")
	m.printf("--  -------------------- --- -------------  --------------")
	for _, l := range m.cart.Lines() {
		m.printf("%2d  %-20s %3d %13s  %14s",
			l.ProductID, clip(l.Name), l.Quantity,
			idr.Format(l.Price), idr.Format(l.Subtotal()))
	}
	m.printf("\nTotal: %s", idr.Format(m.cart.Total()))
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.prompter.out, format+"\n", args...)
}

func (m *Menu) warnf(format string, args ...any) {
	m.printf(format, args...)
}

func clip(name string) string {
	r := []rune(name)
	if len(r) > 20 {
		r = r[:20]
	}
	return string(r)
}
