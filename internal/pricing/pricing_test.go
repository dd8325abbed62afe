package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineTotalNoDiscount(t *testing.T) {
	cases := []struct {
		name  string
		price string
		qty   int
		want  string
	}{
		{"single unit", "10.00", 1, "10"},
		{"multiple units", "5.50", 3, "16.5"},
		{"zero quantity", "9.99", 0, "0"},
		{"cent precision", "0.01", 7, "0.07"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LineTotal(Line{UnitPrice: dec(tc.price), Quantity: tc.qty})
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestLineTotalWithDiscount(t *testing.T) {
	// 10.00 x 2 at 20% off = 16.00
	got, err := LineTotal(Line{UnitPrice: dec("10.00"), Discount: dec("20"), Quantity: 2})
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("16")), "got %s", got)

	// 100% discount is free, not an error
	got, err = LineTotal(Line{UnitPrice: dec("10.00"), Discount: dec("100"), Quantity: 3})
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// fractional percentage stays exact
	got, err = LineTotal(Line{UnitPrice: dec("8.00"), Discount: dec("12.5"), Quantity: 1})
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("7")), "got %s", got)
}

func TestLineTotalRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		line Line
	}{
		{"negative price", Line{UnitPrice: dec("-1.00"), Quantity: 1}},
		{"negative quantity", Line{UnitPrice: dec("1.00"), Quantity: -1}},
		{"negative discount", Line{UnitPrice: dec("1.00"), Discount: dec("-5"), Quantity: 1}},
		{"discount above 100", Line{UnitPrice: dec("1.00"), Discount: dec("101"), Quantity: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LineTotal(tc.line)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestCartTotals(t *testing.T) {
	lines := []Line{
		{UnitPrice: dec("10.00"), Discount: dec("20"), Quantity: 2}, // gross 20.00, net 16.00
		{UnitPrice: dec("5.00"), Quantity: 1},                       // gross 5.00, net 5.00
	}

	sub, err := Subtotal(lines)
	require.NoError(t, err)
	assert.True(t, sub.Equal(dec("25")), "subtotal %s", sub)

	disc, err := DiscountTotal(lines)
	require.NoError(t, err)
	assert.True(t, disc.Equal(dec("4")), "discount %s", disc)

	total, err := Total(lines)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("21")), "total %s", total)
}

func TestSubtotalMatchesSumOfGrossAmounts(t *testing.T) {
	lines := []Line{
		{UnitPrice: dec("1.99"), Quantity: 3},
		{UnitPrice: dec("0.10"), Discount: dec("50"), Quantity: 9},
		{UnitPrice: dec("12.35"), Quantity: 1},
	}

	want := decimal.Zero
	for _, l := range lines {
		gross, err := GrossAmount(l)
		require.NoError(t, err)
		want = want.Add(gross)
	}

	got, err := Subtotal(lines)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestNoFloatDrift(t *testing.T) {
	// 0.10 added 100 times is exactly 10.00 in decimal arithmetic.
	lines := make([]Line, 100)
	for i := range lines {
		lines[i] = Line{UnitPrice: dec("0.10"), Quantity: 1}
	}
	total, err := Total(lines)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("10")), "total %s", total)
}

func TestRound(t *testing.T) {
	assert.Equal(t, "16.67", Round(dec("16.666666")).StringFixed(2))
	assert.Equal(t, "0.00", Round(decimal.Zero).StringFixed(2))
}
