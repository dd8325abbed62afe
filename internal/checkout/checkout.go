// Package checkout drives the two-step payment flow that turns a cart into
// an order: pick a payment method, review the summary and tender cash, then
// complete. The flow owns no persistence; completion goes through an
// OrderPlacer and anything short of a confirmed order leaves the cart and
// the flow state untouched.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/XylonMarkLabs/justpos-backend/internal/cart"
	"github.com/XylonMarkLabs/justpos-backend/internal/models"
	"github.com/XylonMarkLabs/justpos-backend/internal/pricing"
)

var (
	// ErrInsufficientPayment blocks completion while cash tendered is
	// missing or below the total. User-correctable, not fatal.
	ErrInsufficientPayment = errors.New("checkout: cash received is less than the total")

	// ErrRemoteFailure wraps an order service failure. The flow stays in
	// ReviewingSummary; retrying is the caller's choice.
	ErrRemoteFailure = errors.New("checkout: order service failure")

	// ErrInvalidTransition flags an action that the current state does not
	// allow.
	ErrInvalidTransition = errors.New("checkout: invalid transition")
)

// Cash input accepts at most two fraction digits; anything else is rejected
// outright rather than corrected.
var cashPattern = regexp.MustCompile(`^\d*\.?\d{0,2}$`)

type State int

const (
	SelectingPaymentMethod State = iota
	ReviewingSummary
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case SelectingPaymentMethod:
		return "SelectingPaymentMethod"
	case ReviewingSummary:
		return "ReviewingSummary"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type PaymentMethod string

const (
	Cash PaymentMethod = "cash"
	Card PaymentMethod = "card"
)

// OrderRequest is the submission contract with the order service. All
// amounts are rounded to two places; the service owns identifiers and
// timestamps.
type OrderRequest struct {
	Username      string
	Lines         []cart.Line
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	CashReceived  *decimal.Decimal
	ChangeGiven   *decimal.Decimal
}

// OrderPlacer persists a completed checkout. Implementations must either
// persist the whole order or fail without side effects.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (*models.Order, error)
}

// Flow is one checkout session over a snapshot of the cart. It is not safe
// for concurrent use; there is exactly one mutator per cashier session.
type Flow struct {
	state     State
	method    PaymentMethod
	cashInput string

	username string
	cart     *cart.Cart
	total    decimal.Decimal
	placer   OrderPlacer
	order    *models.Order
}

// New opens the checkout dialog over the given cart. The total is computed
// once here; the cart is not mutated by the flow.
func New(username string, c *cart.Cart, placer OrderPlacer) (*Flow, error) {
	total, err := c.Total()
	if err != nil {
		return nil, err
	}
	return &Flow{
		state:    SelectingPaymentMethod,
		method:   Cash,
		username: username,
		cart:     c.Clone(),
		total:    total,
		placer:   placer,
	}, nil
}

func (f *Flow) State() State          { return f.state }
func (f *Flow) Method() PaymentMethod { return f.method }

// Total is the amount due, at full precision.
func (f *Flow) Total() decimal.Decimal { return f.total }

// Order returns the persisted order once the flow has completed.
func (f *Flow) Order() *models.Order { return f.order }

// SelectMethod picks cash or card on the first step.
func (f *Flow) SelectMethod(m PaymentMethod) error {
	if f.state != SelectingPaymentMethod {
		return ErrInvalidTransition
	}
	if m != Cash && m != Card {
		return pricing.ErrInvalidArgument
	}
	f.method = m
	return nil
}

// Next moves from method selection to the order summary.
func (f *Flow) Next() error {
	if f.state != SelectingPaymentMethod {
		return ErrInvalidTransition
	}
	f.state = ReviewingSummary
	return nil
}

// Back returns to method selection and clears any entered cash.
func (f *Flow) Back() error {
	if f.state != ReviewingSummary {
		return ErrInvalidTransition
	}
	f.state = SelectingPaymentMethod
	f.cashInput = ""
	return nil
}

// EnterCash feeds the cash-received field. Input that does not match the
// two-fraction-digit pattern is rejected and the previous value kept; the
// returned bool reports whether the keystroke was accepted.
func (f *Flow) EnterCash(input string) bool {
	if f.state != ReviewingSummary || f.method != Cash {
		return false
	}
	if input != "" && !cashPattern.MatchString(input) {
		return false
	}
	f.cashInput = input
	return true
}

// CashReceived parses the entered cash, reporting whether a value is
// present.
func (f *Flow) CashReceived() (decimal.Decimal, bool) {
	if f.cashInput == "" || f.cashInput == "." {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(f.cashInput)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Change is cash received minus total, recomputed live as the input changes.
// Negative change means the tender does not yet cover the total; it is shown
// to the cashier but blocks completion.
func (f *Flow) Change() decimal.Decimal {
	received, ok := f.CashReceived()
	if !ok {
		return decimal.Zero
	}
	return received.Sub(f.total)
}

// Complete submits the order. Card completes regardless of the cash field;
// cash requires tender covering the total. On placer failure the flow stays
// in ReviewingSummary with its form state intact so the cashier can retry.
func (f *Flow) Complete(ctx context.Context) (*models.Order, error) {
	if f.state != ReviewingSummary {
		return nil, ErrInvalidTransition
	}

	req := OrderRequest{
		Username:      f.username,
		Lines:         f.cart.Lines,
		PaymentMethod: f.method,
	}

	sub, err := f.cart.Subtotal()
	if err != nil {
		return nil, err
	}
	disc, err := f.cart.DiscountTotal()
	if err != nil {
		return nil, err
	}
	req.Subtotal = pricing.Round(sub)
	req.DiscountTotal = pricing.Round(disc)
	req.Total = pricing.Round(f.total)

	if f.method == Cash {
		received, ok := f.CashReceived()
		if !ok || received.LessThan(f.total) {
			return nil, ErrInsufficientPayment
		}
		change := pricing.Round(received.Sub(f.total))
		received = pricing.Round(received)
		req.CashReceived = &received
		req.ChangeGiven = &change
	}

	order, err := f.placer.PlaceOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}

	f.state = Completed
	f.order = order
	f.reset()
	return order, nil
}

// Cancel closes the dialog from any non-terminal state. No backend writes
// have happened, so there is nothing to undo beyond the form state.
func (f *Flow) Cancel() {
	if f.state == Completed || f.state == Cancelled {
		return
	}
	f.state = Cancelled
	f.reset()
}

func (f *Flow) reset() {
	f.method = Cash
	f.cashInput = ""
}
