package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XylonMarkLabs/justpos-backend/internal/models"
	"github.com/XylonMarkLabs/justpos-backend/internal/pricing"
)

func product(code string, price string, discount string, stock int) models.Product {
	p, err := decimal.NewFromString(price)
	if err != nil {
		panic(err)
	}
	d, err := decimal.NewFromString(discount)
	if err != nil {
		panic(err)
	}
	return models.Product{
		ProductCode:     code,
		ProductName:     "Product " + code,
		SellingPrice:    p,
		Discount:        d,
		QuantityInStock: stock,
	}
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	c := New("cashier1")
	p := product("P001", "10.00", "0", 10)

	require.NoError(t, c.AddItem(p, 1))
	require.NoError(t, c.AddItem(p, 1))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, "P001", c.Lines[0].Product.ProductCode)
}

func TestAddItemOutOfStockLeavesCartUnchanged(t *testing.T) {
	c := New("cashier1")
	require.NoError(t, c.AddItem(product("P001", "3.00", "0", 5), 1))

	err := c.AddItem(product("P002", "4.00", "0", 0), 1)
	assert.ErrorIs(t, err, ErrOutOfStock)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, "P001", c.Lines[0].Product.ProductCode)
}

func TestAddItemEnforcesStockCeiling(t *testing.T) {
	c := New("cashier1")
	p := product("P001", "2.00", "0", 2)

	require.NoError(t, c.AddItem(p, 1))
	require.NoError(t, c.AddItem(p, 1))
	assert.ErrorIs(t, c.AddItem(p, 1), ErrOutOfStock)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestAddItemRejectsInvalidInput(t *testing.T) {
	c := New("cashier1")
	assert.ErrorIs(t, c.AddItem(product("P001", "1.00", "0", 5), 0), pricing.ErrInvalidArgument)
	assert.ErrorIs(t, c.AddItem(product("P001", "1.00", "0", 5), -2), pricing.ErrInvalidArgument)
	assert.ErrorIs(t, c.AddItem(product("P002", "-1.00", "0", 5), 1), pricing.ErrInvalidArgument)
	assert.ErrorIs(t, c.AddItem(product("P003", "1.00", "120", 5), 1), pricing.ErrInvalidArgument)
	assert.Empty(t, c.Lines)
}

func TestAddItemRefreshesSnapshot(t *testing.T) {
	c := New("cashier1")
	require.NoError(t, c.AddItem(product("P001", "10.00", "0", 5), 1))

	// price change lands on re-add
	require.NoError(t, c.AddItem(product("P001", "12.00", "10", 5), 1))
	assert.Equal(t, "12", c.Lines[0].Product.Price.String())
	assert.Equal(t, "10", c.Lines[0].Product.Discount.String())
}

func TestRemoveItem(t *testing.T) {
	c := New("cashier1")
	require.NoError(t, c.AddItem(product("P001", "1.00", "0", 5), 1))
	require.NoError(t, c.AddItem(product("P002", "2.00", "0", 5), 1))

	c.RemoveItem("P001")
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "P002", c.Lines[0].Product.ProductCode)

	// absent code is a no-op
	c.RemoveItem("P999")
	assert.Len(t, c.Lines, 1)
}

func TestUpdateQuantity(t *testing.T) {
	c := New("cashier1")
	require.NoError(t, c.AddItem(product("P001", "1.00", "0", 10), 1))

	require.NoError(t, c.UpdateQuantity("P001", 4))
	assert.Equal(t, 4, c.Lines[0].Quantity)

	// idempotent
	require.NoError(t, c.UpdateQuantity("P001", 4))
	assert.Equal(t, 4, c.Lines[0].Quantity)

	// zero and negative are guard no-ops, not removals
	require.NoError(t, c.UpdateQuantity("P001", 0))
	require.NoError(t, c.UpdateQuantity("P001", -1))
	assert.Equal(t, 4, c.Lines[0].Quantity)

	// unknown code is a no-op
	require.NoError(t, c.UpdateQuantity("P999", 2))
	require.Len(t, c.Lines, 1)

	// above stock is rejected
	assert.ErrorIs(t, c.UpdateQuantity("P001", 11), ErrOutOfStock)
	assert.Equal(t, 4, c.Lines[0].Quantity)
}

func TestClear(t *testing.T) {
	c := New("cashier1")
	require.NoError(t, c.AddItem(product("P001", "1.00", "0", 5), 2))
	c.Clear()
	assert.Empty(t, c.Lines)
	assert.Equal(t, 0, c.TotalQuantity())
}

func TestTotalsRecomputedAfterEveryMutation(t *testing.T) {
	c := New("cashier1")
	require.NoError(t, c.AddItem(product("P001", "10.00", "20", 10), 2)) // 16.00
	require.NoError(t, c.AddItem(product("P002", "5.00", "0", 10), 1))  // 5.00

	total, err := c.Total()
	require.NoError(t, err)
	assert.Equal(t, "21.00", total.StringFixed(2))

	sub, err := c.Subtotal()
	require.NoError(t, err)
	assert.Equal(t, "25.00", sub.StringFixed(2))

	disc, err := c.DiscountTotal()
	require.NoError(t, err)
	assert.Equal(t, "4.00", disc.StringFixed(2))

	require.NoError(t, c.UpdateQuantity("P001", 1))
	total, err = c.Total()
	require.NoError(t, err)
	assert.Equal(t, "13.00", total.StringFixed(2))

	c.RemoveItem("P002")
	total, err = c.Total()
	require.NoError(t, err)
	assert.Equal(t, "8.00", total.StringFixed(2))
}

func TestMemoryStoreConfirmThenApply(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.Add(ctx, "cashier1", product("P001", "10.00", "0", 5))
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)

	// the returned cart is a copy; mutating it must not leak into the store
	got.Lines[0].Quantity = 99
	fresh, err := store.Get(ctx, "cashier1")
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Lines[0].Quantity)

	_, err = store.Add(ctx, "cashier1", product("P002", "1.00", "0", 0))
	assert.ErrorIs(t, err, ErrOutOfStock)

	// failed add left the stored cart alone
	fresh, err = store.Get(ctx, "cashier1")
	require.NoError(t, err)
	assert.Len(t, fresh.Lines, 1)

	got, err = store.UpdateQuantity(ctx, "cashier1", "P001", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Lines[0].Quantity)

	got, err = store.Remove(ctx, "cashier1", "P001")
	require.NoError(t, err)
	assert.Empty(t, got.Lines)

	require.NoError(t, store.Clear(ctx, "cashier1"))
	fresh, err = store.Get(ctx, "cashier1")
	require.NoError(t, err)
	assert.Empty(t, fresh.Lines)
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Add(ctx, "alice", product("P001", "1.00", "0", 5))
	require.NoError(t, err)

	bob, err := store.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bob.Lines)
}
