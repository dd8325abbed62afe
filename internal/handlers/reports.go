package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/XylonMarkLabs/justpos-backend/internal/models"
)

// SalesReportResponse summarizes completed orders over a date range
type SalesReportResponse struct {
	TotalRevenue   decimal.Decimal        `json:"totalRevenue"`
	TotalDiscount  decimal.Decimal        `json:"totalDiscount"`
	OrderCount     int64                  `json:"orderCount"`
	PaymentMethods []PaymentMethodSummary `json:"paymentMethods"`
}

type PaymentMethodSummary struct {
	PaymentMethod string          `json:"paymentMethod"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	OrderCount    int64           `json:"orderCount"`
}

func parseDateRange(c *fiber.Ctx) (start, end time.Time, err error) {
	if s := c.Query("start_date"); s != "" {
		start, err = time.Parse("2006-01-02", s)
		if err != nil {
			return
		}
	}
	if e := c.Query("end_date"); e != "" {
		end, err = time.Parse("2006-01-02", e)
		if err != nil {
			return
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	return
}

func rangeQuery(q *gorm.DB, start, end time.Time) *gorm.DB {
	if !start.IsZero() {
		q = q.Where("date >= ?", start)
	}
	if !end.IsZero() {
		q = q.Where("date <= ?", end)
	}
	return q
}

// SalesReport aggregates revenue, discounts and per-payment-method totals
// over an optional start_date/end_date range (YYYY-MM-DD)
func SalesReport(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseDateRange(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid date format. Use YYYY-MM-DD"})
		}

		var totals struct {
			TotalRevenue  decimal.Decimal
			TotalDiscount decimal.Decimal
			OrderCount    int64
		}
		q := rangeQuery(db.Model(&models.Order{}), start, end).Where("status = ?", models.OrderCompleted)
		if err := q.Select("coalesce(sum(total_amount), 0) as total_revenue, coalesce(sum(discount), 0) as total_discount, count(*) as order_count").
			Scan(&totals).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to build report"})
		}

		var byMethod []PaymentMethodSummary
		q = rangeQuery(db.Model(&models.Order{}), start, end).Where("status = ?", models.OrderCompleted)
		if err := q.Select("payment_method, coalesce(sum(total_amount), 0) as total_amount, count(*) as order_count").
			Group("payment_method").Scan(&byMethod).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to build report"})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"report": SalesReportResponse{
				TotalRevenue:   totals.TotalRevenue,
				TotalDiscount:  totals.TotalDiscount,
				OrderCount:     totals.OrderCount,
				PaymentMethods: byMethod,
			},
		})
	}
}

// InventoryItemStatus is one catalog row with its stock flags, mirroring the
// low-stock and out-of-stock badges on the product cards
type InventoryItemStatus struct {
	ProductCode     string `json:"productCode"`
	ProductName     string `json:"productName"`
	Category        string `json:"category"`
	QuantityInStock int    `json:"quantityInStock"`
	MinStock        int    `json:"minStock"`
	LowStock        bool   `json:"lowStock"`
	OutOfStock      bool   `json:"outOfStock"`
}

// InventoryReport lists stock levels across the catalog
func InventoryReport(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := db.Order("product_name").Find(&products).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to fetch products"})
		}

		items := make([]InventoryItemStatus, 0, len(products))
		lowCount, outCount := 0, 0
		for _, p := range products {
			out := p.QuantityInStock <= 0
			low := !out && p.QuantityInStock <= p.MinStock
			if out {
				outCount++
			}
			if low {
				lowCount++
			}
			items = append(items, InventoryItemStatus{
				ProductCode:     p.ProductCode,
				ProductName:     p.ProductName,
				Category:        p.Category,
				QuantityInStock: p.QuantityInStock,
				MinStock:        p.MinStock,
				LowStock:        low,
				OutOfStock:      out,
			})
		}

		return c.JSON(fiber.Map{
			"success":    true,
			"items":      items,
			"lowStock":   lowCount,
			"outOfStock": outCount,
		})
	}
}
