// Package cart implements the per-cashier shopping cart: the mutable
// collection of line items between product lookup and checkout. A cart holds
// at most one line per product code; totals are always derived from the
// lines, never cached.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/XylonMarkLabs/justpos-backend/internal/models"
	"github.com/XylonMarkLabs/justpos-backend/internal/pricing"
)

// ErrOutOfStock rejects an add or quantity update the catalog cannot cover.
// The cart is left exactly as it was.
var ErrOutOfStock = errors.New("cart: product out of stock")

// Snapshot carries the product fields a cart line needs, captured when the
// item is added and refreshed on every re-add.
type Snapshot struct {
	ProductCode string          `json:"productCode"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	ImageURL    string          `json:"image"`
	Stock       int             `json:"stock"`
}

// Line is one (product, quantity) pair. Quantity is always >= 1; a zero or
// negative quantity is never stored.
type Line struct {
	Product  Snapshot `json:"product"`
	Quantity int      `json:"quantity"`
}

// Cart is the aggregate for one cashier session, keyed by username.
type Cart struct {
	Username string `json:"username"`
	Lines    []Line `json:"items"`
}

func New(username string) *Cart {
	return &Cart{Username: username}
}

func snapshot(p models.Product) Snapshot {
	return Snapshot{
		ProductCode: p.ProductCode,
		Name:        p.ProductName,
		Price:       p.SellingPrice,
		Discount:    p.Discount,
		ImageURL:    p.ImageURL,
		Stock:       p.QuantityInStock,
	}
}

func (c *Cart) find(code string) int {
	for i := range c.Lines {
		if c.Lines[i].Product.ProductCode == code {
			return i
		}
	}
	return -1
}

// AddItem puts quantity units of the product into the cart, incrementing the
// existing line when the product is already present. An exhausted stock, or
// a resulting quantity above what is in stock, fails with ErrOutOfStock and
// leaves the cart unchanged. The line's product snapshot is refreshed from
// the given product on every add.
func (c *Cart) AddItem(p models.Product, quantity int) error {
	if quantity < 1 {
		return pricing.ErrInvalidArgument
	}
	if p.SellingPrice.IsNegative() || p.Discount.IsNegative() || p.Discount.GreaterThan(decimal.NewFromInt(100)) {
		return pricing.ErrInvalidArgument
	}
	if p.QuantityInStock <= 0 {
		return ErrOutOfStock
	}

	if i := c.find(p.ProductCode); i >= 0 {
		next := c.Lines[i].Quantity + quantity
		if next > p.QuantityInStock {
			return ErrOutOfStock
		}
		c.Lines[i].Product = snapshot(p)
		c.Lines[i].Quantity = next
		return nil
	}

	if quantity > p.QuantityInStock {
		return ErrOutOfStock
	}
	c.Lines = append(c.Lines, Line{Product: snapshot(p), Quantity: quantity})
	return nil
}

// RemoveItem deletes the line for the product code. Removing an absent code
// is a no-op, not an error.
func (c *Cart) RemoveItem(code string) {
	if i := c.find(code); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// UpdateQuantity sets the quantity of an existing line. Values below 1 are
// ignored (the remove button deletes lines, a decrement never does), as is
// a code not present in the cart. Quantities above the snapshot's stock fail
// with ErrOutOfStock.
func (c *Cart) UpdateQuantity(code string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	i := c.find(code)
	if i < 0 {
		return nil
	}
	if quantity > c.Lines[i].Product.Stock {
		return ErrOutOfStock
	}
	c.Lines[i].Quantity = quantity
	return nil
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Lines = nil
}

// TotalQuantity is the badge count: units across all lines.
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) pricingLines() []pricing.Line {
	lines := make([]pricing.Line, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = pricing.Line{UnitPrice: l.Product.Price, Discount: l.Product.Discount, Quantity: l.Quantity}
	}
	return lines
}

// Subtotal is the pre-discount amount across all lines.
func (c *Cart) Subtotal() (decimal.Decimal, error) {
	return pricing.Subtotal(c.pricingLines())
}

// DiscountTotal is the amount saved by per-item discounts.
func (c *Cart) DiscountTotal() (decimal.Decimal, error) {
	return pricing.DiscountTotal(c.pricingLines())
}

// Total is what the customer pays.
func (c *Cart) Total() (decimal.Decimal, error) {
	return pricing.Total(c.pricingLines())
}

// Clone returns a deep copy, so callers can hand out carts without sharing
// line slices.
func (c *Cart) Clone() *Cart {
	cp := &Cart{Username: c.Username}
	if len(c.Lines) > 0 {
		cp.Lines = make([]Line, len(c.Lines))
		copy(cp.Lines, c.Lines)
	}
	return cp
}
