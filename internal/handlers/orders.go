package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/XylonMarkLabs/justpos-backend/internal/cart"
	"github.com/XylonMarkLabs/justpos-backend/internal/checkout"
	"github.com/XylonMarkLabs/justpos-backend/internal/models"
	"github.com/XylonMarkLabs/justpos-backend/internal/pricing"
	"github.com/XylonMarkLabs/justpos-backend/internal/receipt"
)

// GormPlacer persists completed checkouts. The order row, its item
// snapshots and the stock decrements commit in one transaction; any failure
// rolls the whole order back so no partial sale is ever recorded.
type GormPlacer struct {
	DB *gorm.DB
}

func (p GormPlacer) PlaceOrder(ctx context.Context, req checkout.OrderRequest) (*models.Order, error) {
	order := models.Order{
		OrderCode:     "ORD-" + strings.ToUpper(uuid.NewString()[:8]),
		Username:      req.Username,
		TotalAmount:   req.Total,
		Discount:      req.DiscountTotal,
		PaymentMethod: string(req.PaymentMethod),
		CashReceived:  req.CashReceived,
		ChangeGiven:   req.ChangeGiven,
		Status:        models.OrderCompleted,
		Date:          time.Now().UTC(),
	}

	err := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range req.Lines {
			net, err := pricing.LineTotal(pricing.Line{
				UnitPrice: line.Product.Price,
				Discount:  line.Product.Discount,
				Quantity:  line.Quantity,
			})
			if err != nil {
				return err
			}

			item := models.OrderItem{
				OrderID:   order.ID,
				Name:      line.Product.Name,
				Price:     pricing.Round(line.Product.Price),
				Quantity:  line.Quantity,
				Discount:  line.Product.Discount,
				LineTotal: pricing.Round(net),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, item)

			res := tx.Model(&models.Product{}).
				Where("product_code = ? AND quantity_in_stock >= ?", line.Product.ProductCode, line.Quantity).
				UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("insufficient stock for %s", line.Product.ProductCode)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// OrderHandler serves checkout, order history and receipt downloads.
type OrderHandler struct {
	DB       *gorm.DB
	Store    cart.Store
	Placer   checkout.OrderPlacer
	Receipts receipt.Generator
}

func NewOrderHandler(db *gorm.DB, store cart.Store, placer checkout.OrderPlacer, receipts receipt.Generator) *OrderHandler {
	return &OrderHandler{DB: db, Store: store, Placer: placer, Receipts: receipts}
}

// CheckoutRequest is the submission the cashier UI sends after the two-step
// dialog. Totals and discount are recomputed server-side from the stored
// cart; only the tender is taken from the request.
type CheckoutRequest struct {
	Username      string           `json:"username"`
	PaymentMethod string           `json:"paymentMethod"`
	CashReceived  *decimal.Decimal `json:"cashReceived"`
}

// Checkout drives the payment flow over the stored cart: select method,
// review, tender, complete. On success the order is persisted, stock
// decremented and the cart cleared; on any failure the cart stays intact.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "username is required"})
	}

	crt, err := h.Store.Get(c.Context(), req.Username)
	if err != nil {
		log.Printf("Error fetching cart: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": "Failed to fetch cart"})
	}
	if len(crt.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Cart is empty"})
	}

	flow, err := checkout.New(req.Username, crt, h.Placer)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid cart contents"})
	}

	if err := flow.SelectMethod(checkout.PaymentMethod(req.PaymentMethod)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid payment method"})
	}
	if err := flow.Next(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Checkout failed"})
	}

	if flow.Method() == checkout.Cash && req.CashReceived != nil {
		if !flow.EnterCash(req.CashReceived.String()) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid cash amount"})
		}
	}

	order, err := flow.Complete(c.Context())
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInsufficientPayment):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Cash received is less than the total",
				"change":  flow.Change().Round(2),
			})
		case errors.Is(err, checkout.ErrRemoteFailure):
			log.Printf("Order submission failed: %v", err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": "Failed to record the sale"})
		default:
			log.Printf("Checkout failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Checkout failed"})
		}
	}

	// sale recorded; the cart's job is done
	if err := h.Store.Clear(c.Context(), req.Username); err != nil {
		log.Printf("Warning: failed to clear cart for %s after checkout: %v", req.Username, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "order": order})
}

// GetOrders returns the order history, newest first
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	var orders []models.Order
	if err := h.DB.Preload("Items").Order("date desc").Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to fetch orders"})
	}

	return c.JSON(fiber.Map{"success": true, "orders": orders})
}

// GetOrder returns one order with its item snapshots
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	code := c.Params("orderId")

	var order models.Order
	if err := h.DB.Preload("Items").Where("order_code = ?", code).First(&order).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Order not found"})
	}

	return c.JSON(fiber.Map{"success": true, "order": order})
}

// Receipt renders the order's receipt PDF for download
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	code := c.Params("orderId")

	var order models.Order
	if err := h.DB.Preload("Items").Where("order_code = ?", code).First(&order).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Order not found"})
	}

	pdf, err := h.Receipts.Generate(order)
	if err != nil {
		log.Printf("Error generating receipt for %s: %v", code, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to generate receipt"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="Order-%s-Receipt.pdf"`, order.OrderCode))
	return c.Send(pdf)
}
