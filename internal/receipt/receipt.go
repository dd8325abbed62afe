// Package receipt renders a completed order into a printable PDF. The
// document is a pure function of the order's frozen item snapshots: the
// generation timestamp is the order's own, so generating twice yields
// byte-identical output.
package receipt

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/XylonMarkLabs/justpos-backend/internal/models"
	"github.com/XylonMarkLabs/justpos-backend/internal/pricing"
)

// Item names longer than this are truncated in the table.
const maxNameLen = 24

// Summary holds the money footer of a receipt, derived from the item
// snapshots alone.
type Summary struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	GrandTotal    decimal.Decimal
}

// Summarize recomputes the footer amounts from the order's snapshots.
func Summarize(order models.Order) (Summary, error) {
	lines := make([]pricing.Line, len(order.Items))
	for i, it := range order.Items {
		lines[i] = pricing.Line{UnitPrice: it.Price, Discount: it.Discount, Quantity: it.Quantity}
	}

	sub, err := pricing.Subtotal(lines)
	if err != nil {
		return Summary{}, err
	}
	disc, err := pricing.DiscountTotal(lines)
	if err != nil {
		return Summary{}, err
	}
	total, err := pricing.Total(lines)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Subtotal:      pricing.Round(sub),
		DiscountTotal: pricing.Round(disc),
		GrandTotal:    pricing.Round(total),
	}, nil
}

// TruncateName shortens an item name for the table column.
func TruncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxNameLen {
		return name
	}
	return string(runes[:maxNameLen-3]) + "..."
}

// Generator renders receipts for one merchant.
type Generator struct {
	Merchant string
}

// Generate produces the PDF for a completed order.
func (g Generator) Generate(order models.Order) ([]byte, error) {
	sum, err := Summarize(order)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Receipts are tiny; leaving streams uncompressed keeps the output
	// inspectable and the bytes stable.
	pdf.SetCompression(false)
	pdf.SetCreationDate(order.Date.UTC())
	pdf.AddPage()

	// header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, g.Merchant, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Order %s", order.OrderCode), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, order.Date.UTC().Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Cashier: %s", order.Username), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Payment: %s", order.PaymentMethod), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// item table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "Unit Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(20, 7, "Disc.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range order.Items {
		line := pricing.Line{UnitPrice: it.Price, Discount: it.Discount, Quantity: it.Quantity}
		gross, err := pricing.GrossAmount(line)
		if err != nil {
			return nil, err
		}
		net, err := pricing.LineTotal(line)
		if err != nil {
			return nil, err
		}

		pdf.CellFormat(70, 7, TruncateName(it.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", it.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, it.Price.StringFixed(2), "", 0, "R", false, 0, "")

		if it.Discount.IsPositive() {
			pdf.CellFormat(20, 7, it.Discount.String()+"%", "", 0, "R", false, 0, "")
			// pre-discount amount, struck through
			grossText := pricing.Round(gross).StringFixed(2)
			x, y := pdf.GetX(), pdf.GetY()
			w := pdf.GetStringWidth(grossText)
			pdf.SetTextColor(128, 128, 128)
			pdf.CellFormat(20, 7, grossText, "", 0, "R", false, 0, "")
			pdf.Line(x+20-w, y+3.5, x+20, y+3.5)
			pdf.SetTextColor(0, 0, 0)
			pdf.CellFormat(20, 7, pricing.Round(net).StringFixed(2), "", 1, "R", false, 0, "")
		} else {
			pdf.CellFormat(20, 7, "-", "", 0, "R", false, 0, "")
			pdf.CellFormat(40, 7, pricing.Round(net).StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	// footer
	pdf.Ln(4)
	footer := func(label, amount string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(140, 7, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, amount, "", 1, "R", false, 0, "")
	}

	footer("Subtotal", sum.Subtotal.StringFixed(2), false)
	footer("Total Discount", sum.DiscountTotal.StringFixed(2), false)
	footer("Grand Total", sum.GrandTotal.StringFixed(2), true)

	if order.PaymentMethod == "cash" && order.CashReceived != nil {
		footer("Cash Received", order.CashReceived.StringFixed(2), false)
		if order.ChangeGiven != nil {
			footer("Change", order.ChangeGiven.StringFixed(2), false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
