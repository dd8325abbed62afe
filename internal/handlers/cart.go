package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/XylonMarkLabs/justpos-backend/internal/cart"
)

// CartHandler serves the per-cashier cart. Mutations go through the store
// and the response always carries the cart as the store now holds it, so
// the client never has to trust an optimistic local merge.
type CartHandler struct {
	Store   cart.Store
	Catalog ProductFinder
}

func NewCartHandler(store cart.Store, catalog ProductFinder) *CartHandler {
	return &CartHandler{Store: store, Catalog: catalog}
}

type cartItemRequest struct {
	Username    string `json:"username"`
	ProductCode string `json:"productCode"`
}

type cartQuantityRequest struct {
	Username    string `json:"username"`
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

func (h *CartHandler) respondCart(c *fiber.Ctx, crt *cart.Cart) error {
	total, err := crt.Total()
	if err != nil {
		log.Printf("Error computing cart total: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to compute cart total"})
	}
	discount, err := crt.DiscountTotal()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to compute cart total"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"items":    crt.Lines,
		"total":    total.Round(2),
		"discount": discount.Round(2),
	})
}

// GetCart returns the cart for a username
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	username := c.Params("username")

	crt, err := h.Store.Get(c.Context(), username)
	if err != nil {
		log.Printf("Error fetching cart: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": "Failed to fetch cart"})
	}

	return h.respondCart(c, crt)
}

// AddToCart puts one unit of a product into the cart
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Username == "" || req.ProductCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "username and productCode are required"})
	}

	product, err := h.Catalog.FindByCode(c.Context(), req.ProductCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Product not found"})
		}
		log.Printf("Error fetching product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to fetch product"})
	}

	crt, err := h.Store.Add(c.Context(), req.Username, *product)
	if err != nil {
		if errors.Is(err, cart.ErrOutOfStock) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "error": "Product is out of stock"})
		}
		log.Printf("Error adding to cart: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": "Failed to add to cart"})
	}

	return h.respondCart(c, crt)
}

// RemoveFromCart deletes a line from the cart
func (h *CartHandler) RemoveFromCart(c *fiber.Ctx) error {
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	crt, err := h.Store.Remove(c.Context(), req.Username, req.ProductCode)
	if err != nil {
		log.Printf("Error removing from cart: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": "Failed to remove from cart"})
	}

	return h.respondCart(c, crt)
}

// UpdateQuantity sets the quantity of a cart line. Quantities below 1 are
// ignored by the aggregate, matching the minus-button guard.
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	var req cartQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	crt, err := h.Store.UpdateQuantity(c.Context(), req.Username, req.ProductCode, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrOutOfStock) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "error": "Not enough stock for the requested quantity"})
		}
		log.Printf("Error updating cart quantity: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": "Failed to update quantity"})
	}

	return h.respondCart(c, crt)
}

// ClearCart empties the cart for a username
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	username := c.Params("username")

	if err := h.Store.Clear(c.Context(), username); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": "Failed to clear cart"})
	}

	return c.JSON(fiber.Map{"success": true, "items": []cart.Line{}})
}
