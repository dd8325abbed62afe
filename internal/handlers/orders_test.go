package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XylonMarkLabs/justpos-backend/internal/cart"
	"github.com/XylonMarkLabs/justpos-backend/internal/checkout"
	"github.com/XylonMarkLabs/justpos-backend/internal/models"
)

type fakePlacer struct {
	err    error
	calls  int
	lastRq checkout.OrderRequest
}

func (p *fakePlacer) PlaceOrder(ctx context.Context, req checkout.OrderRequest) (*models.Order, error) {
	p.calls++
	p.lastRq = req
	if p.err != nil {
		return nil, p.err
	}
	return &models.Order{
		OrderCode:     "ORD-TEST",
		Username:      req.Username,
		TotalAmount:   req.Total,
		PaymentMethod: string(req.PaymentMethod),
		CashReceived:  req.CashReceived,
		ChangeGiven:   req.ChangeGiven,
		Status:        models.OrderCompleted,
	}, nil
}

func newCheckoutApp(store cart.Store, placer checkout.OrderPlacer) *fiber.App {
	h := &OrderHandler{Store: store, Placer: placer}

	app := fiber.New()
	app.Post("/api/order/checkout", h.Checkout)
	return app
}

// seed a cart worth 21.00: 10.00x2 at 20% off plus 5.00
func seedCart(t *testing.T, store cart.Store) {
	t.Helper()
	ctx := context.Background()
	catalog := testCatalog()

	p1 := catalog.products["P001"]
	_, err := store.Add(ctx, "cashier1", p1)
	require.NoError(t, err)
	_, err = store.Add(ctx, "cashier1", p1)
	require.NoError(t, err)
	_, err = store.Add(ctx, "cashier1", catalog.products["P002"])
	require.NoError(t, err)
}

func TestCheckoutEmptyCart(t *testing.T) {
	app := newCheckoutApp(cart.NewMemoryStore(), &fakePlacer{})

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/order/checkout",
		fiber.Map{"username": "cashier1", "paymentMethod": "cash", "cashReceived": "50.00"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutCashInsufficient(t *testing.T) {
	store := cart.NewMemoryStore()
	placer := &fakePlacer{}
	app := newCheckoutApp(store, placer)
	seedCart(t, store)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/order/checkout",
		fiber.Map{"username": "cashier1", "paymentMethod": "cash", "cashReceived": "20.99"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, placer.calls)

	// nothing was persisted and the cart survives for the retry
	crt, err := store.Get(context.Background(), "cashier1")
	require.NoError(t, err)
	assert.Len(t, crt.Lines, 2)
}

func TestCheckoutCashSuccess(t *testing.T) {
	store := cart.NewMemoryStore()
	placer := &fakePlacer{}
	app := newCheckoutApp(store, placer)
	seedCart(t, store)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/order/checkout",
		fiber.Map{"username": "cashier1", "paymentMethod": "cash", "cashReceived": "25.00"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Success bool `json:"success"`
		Order   struct {
			OrderID       string `json:"orderId"`
			TotalAmount   string `json:"totalAmount"`
			CashReceived  string `json:"cashReceived"`
			ChangeGiven   string `json:"changeGiven"`
			PaymentMethod string `json:"paymentMethod"`
		} `json:"order"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.True(t, out.Success)
	assert.Equal(t, "ORD-TEST", out.Order.OrderID)
	assert.Equal(t, "21", out.Order.TotalAmount)
	assert.Equal(t, "25", out.Order.CashReceived)
	assert.Equal(t, "4", out.Order.ChangeGiven)

	require.Equal(t, 1, placer.calls)
	assert.Equal(t, "25.00", placer.lastRq.Subtotal.StringFixed(2))
	assert.Equal(t, "4.00", placer.lastRq.DiscountTotal.StringFixed(2))
	require.Len(t, placer.lastRq.Lines, 2)

	// cart cleared after the sale
	crt, err := store.Get(context.Background(), "cashier1")
	require.NoError(t, err)
	assert.Empty(t, crt.Lines)
}

func TestCheckoutCardIgnoresCash(t *testing.T) {
	store := cart.NewMemoryStore()
	placer := &fakePlacer{}
	app := newCheckoutApp(store, placer)
	seedCart(t, store)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/order/checkout",
		fiber.Map{"username": "cashier1", "paymentMethod": "card"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, checkout.Card, placer.lastRq.PaymentMethod)
	assert.Nil(t, placer.lastRq.CashReceived)
}

func TestCheckoutInvalidPaymentMethod(t *testing.T) {
	store := cart.NewMemoryStore()
	app := newCheckoutApp(store, &fakePlacer{})
	seedCart(t, store)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/order/checkout",
		fiber.Map{"username": "cashier1", "paymentMethod": "crypto"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutPlacerFailureKeepsCart(t *testing.T) {
	store := cart.NewMemoryStore()
	placer := &fakePlacer{err: errors.New("db down")}
	app := newCheckoutApp(store, placer)
	seedCart(t, store)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/order/checkout",
		fiber.Map{"username": "cashier1", "paymentMethod": "card"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// no partial order is considered persisted; the cart is intact
	crt, err := store.Get(context.Background(), "cashier1")
	require.NoError(t, err)
	assert.Len(t, crt.Lines, 2)
}
