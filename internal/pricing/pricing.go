// Package pricing holds the pure money math for the cashier flow. All
// amounts are decimal; callers round to two places only when persisting or
// rendering, never between computations.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument flags negative prices/quantities or a discount outside
// [0,100] reaching the engine. These are rejected, not clamped: validated UI
// input should never produce them, so hitting this is a data or programmer
// error.
var ErrInvalidArgument = errors.New("pricing: invalid argument")

var oneHundred = decimal.NewFromInt(100)

// Line is the slice of a cart the engine needs: unit price, per-item
// discount percentage and quantity.
type Line struct {
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Quantity  int
}

func validate(l Line) error {
	if l.UnitPrice.IsNegative() || l.Quantity < 0 {
		return ErrInvalidArgument
	}
	if l.Discount.IsNegative() || l.Discount.GreaterThan(oneHundred) {
		return ErrInvalidArgument
	}
	return nil
}

// GrossAmount is unitPrice x quantity before any discount.
func GrossAmount(l Line) (decimal.Decimal, error) {
	if err := validate(l); err != nil {
		return decimal.Zero, err
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))), nil
}

// LineTotal applies the per-item discount to the gross amount. Discount is a
// percentage in [0,100]; 20 means twenty percent off.
func LineTotal(l Line) (decimal.Decimal, error) {
	gross, err := GrossAmount(l)
	if err != nil {
		return decimal.Zero, err
	}
	if l.Discount.IsZero() {
		return gross, nil
	}
	return gross.Mul(oneHundred.Sub(l.Discount)).Div(oneHundred), nil
}

// Subtotal sums the gross amounts of all lines, before any discount.
func Subtotal(lines []Line) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, l := range lines {
		gross, err := GrossAmount(l)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(gross)
	}
	return sum, nil
}

// DiscountTotal sums the per-item discount amounts across all lines.
func DiscountTotal(lines []Line) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, l := range lines {
		gross, err := GrossAmount(l)
		if err != nil {
			return decimal.Zero, err
		}
		net, err := LineTotal(l)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(gross.Sub(net))
	}
	return sum, nil
}

// Total is the amount the customer pays: subtotal minus the discount total.
// Per-item and order-level adjustments are kept separate so neither is
// applied twice.
func Total(lines []Line) (decimal.Decimal, error) {
	sub, err := Subtotal(lines)
	if err != nil {
		return decimal.Zero, err
	}
	disc, err := DiscountTotal(lines)
	if err != nil {
		return decimal.Zero, err
	}
	return sub.Sub(disc), nil
}

// Round renders an amount at the two-decimal boundary. Persistence and
// presentation go through here; intermediate math never does.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
