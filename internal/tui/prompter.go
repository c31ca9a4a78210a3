package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aspectxlol/uprak-pos/internal/domain/checkout"
)

// errInputClosed reports that the input stream is gone. It still counts as a
// cancel for the checkout flow, but the menu loop uses it to exit instead of
// reprompting forever.
var errInputClosed = fmt.Errorf("input closed: %w", checkout.ErrCancelled)

// Prompter reads operator input line by line. Typing b or B at any prompt
// cancels the current operation, reported as checkout.ErrCancelled; context
// cancellation (e.g. an interrupt at the top level) is reported the same
// way, so callers decide the rollback scope themselves.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

var _ checkout.Prompter = (*Prompter)(nil)

// NewPrompter creates a Prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Text asks for one line of input. The b/B sentinel and a cancelled context
// both yield checkout.ErrCancelled.
func (p *Prompter) Text(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	return p.readLine(ctx)
}

// Acknowledge shows a message and blocks until the operator confirms with
// Enter. Used for the QRIS payment URL hand-off among others; rendering the
// URL as a QR glyph is left to whatever surrounds the terminal.
func (p *Prompter) Acknowledge(ctx context.Context, message string) error {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, message)
	fmt.Fprint(p.out, "Press Enter to confirm (b to cancel): ")
	_, err := p.readLine(ctx)
	return err
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", checkout.ErrCancelled
	}

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", errInputClosed
	}
	if err := ctx.Err(); err != nil {
		return "", checkout.ErrCancelled
	}

	line = strings.TrimRight(line, "\r\n")
	if s := strings.TrimSpace(line); s == "b" || s == "B" {
		return "", checkout.ErrCancelled
	}
	return line, nil
}
