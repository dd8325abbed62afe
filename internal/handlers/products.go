package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/XylonMarkLabs/justpos-backend/internal/models"
)

// ProductRequest defines the structure for creating/updating a product.
// Discount is a percentage in [0,100]; fraction representations (0.2 for
// twenty percent) are rejected here, at the catalog boundary.
type ProductRequest struct {
	ProductCode     string          `json:"productCode"`
	ProductName     string          `json:"productName"`
	Category        string          `json:"category"`
	SellingPrice    decimal.Decimal `json:"sellingPrice"`
	Discount        decimal.Decimal `json:"discount"`
	QuantityInStock int             `json:"quantityInStock"`
	MinStock        int             `json:"minStock"`
}

func (r ProductRequest) validate() string {
	if r.ProductCode == "" || r.ProductName == "" || r.Category == "" {
		return "productCode, productName and category are required"
	}
	if r.SellingPrice.IsNegative() {
		return "sellingPrice must not be negative"
	}
	if r.Discount.IsNegative() || r.Discount.GreaterThan(decimal.NewFromInt(100)) {
		return "discount must be a percentage between 0 and 100"
	}
	if r.QuantityInStock < 0 || r.MinStock < 0 {
		return "stock quantities must not be negative"
	}
	return ""
}

const uploadDir = "./public/uploads/products"

// parseProductForm reads the multipart form: a 'data' JSON field plus an
// optional 'image' file. The saved image path is empty when no file came.
func parseProductForm(c *fiber.Ctx) (*ProductRequest, string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, "", fmt.Errorf("invalid form data")
	}

	dataJSON := form.Value["data"]
	if len(dataJSON) == 0 {
		return nil, "", fmt.Errorf("missing product data")
	}

	var req ProductRequest
	if err := json.Unmarshal([]byte(dataJSON[0]), &req); err != nil {
		return nil, "", fmt.Errorf("invalid product JSON data")
	}

	var imagePath string
	files := form.File["image"]
	if len(files) > 0 {
		file := files[0]
		filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), file.Filename)
		savePath := filepath.Join(uploadDir, filename)

		if err := c.SaveFile(file, savePath); err != nil {
			return nil, "", fmt.Errorf("failed to save image")
		}
		imagePath = "/public/uploads/products/" + filename
	}

	return &req, imagePath, nil
}

// GetProducts handles fetching the whole catalog for the cashier view
func GetProducts(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := db.Order("product_name").Find(&products).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to fetch products"})
		}

		return c.JSON(fiber.Map{"success": true, "products": products})
	}
}

// GetProduct handles fetching a single product by its code
func GetProduct(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")

		var product models.Product
		if err := db.Where("product_code = ?", code).First(&product).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Product not found"})
		}

		return c.JSON(fiber.Map{"success": true, "product": product})
	}
}

// AddProduct handles creating a new catalog entry with an optional image
func AddProduct(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, imagePath, err := parseProductForm(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
		}

		if msg := req.validate(); msg != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": msg})
		}

		var existing models.Product
		if err := db.Where("product_code = ?", req.ProductCode).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "error": "Product code already exists"})
		}

		product := models.Product{
			ProductCode:     req.ProductCode,
			ProductName:     req.ProductName,
			Category:        req.Category,
			SellingPrice:    req.SellingPrice.Round(2),
			Discount:        req.Discount,
			QuantityInStock: req.QuantityInStock,
			MinStock:        req.MinStock,
			ImageURL:        imagePath,
		}

		if err := db.Create(&product).Error; err != nil {
			log.Printf("Error creating product: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to create product"})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "product": product})
	}
}

// UpdateProduct handles updating a catalog entry, replacing the image when a
// new one is uploaded
func UpdateProduct(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")

		req, imagePath, err := parseProductForm(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
		}

		if msg := req.validate(); msg != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": msg})
		}

		var product models.Product
		if err := db.Where("product_code = ?", code).First(&product).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Product not found"})
		}

		if imagePath != "" {
			if product.ImageURL != "" {
				os.Remove(filepath.Join(".", product.ImageURL))
			}
			product.ImageURL = imagePath
		}

		product.ProductName = req.ProductName
		product.Category = req.Category
		product.SellingPrice = req.SellingPrice.Round(2)
		product.Discount = req.Discount
		product.QuantityInStock = req.QuantityInStock
		product.MinStock = req.MinStock

		if err := db.Save(&product).Error; err != nil {
			log.Printf("Error updating product: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to update product"})
		}

		return c.JSON(fiber.Map{"success": true, "product": product})
	}
}

// StockInRequest adds received stock to a product
type StockInRequest struct {
	Quantity int `json:"quantity"`
}

// StockIn handles goods-received stock adjustments
func StockIn(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")

		var req StockInRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
		}
		if req.Quantity <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Quantity must be positive"})
		}

		var product models.Product
		if err := db.Where("product_code = ?", code).First(&product).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Product not found"})
		}

		product.QuantityInStock += req.Quantity
		if err := db.Save(&product).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to update stock"})
		}

		return c.JSON(fiber.Map{"success": true, "product": product})
	}
}

// DeleteProduct handles removing a catalog entry and its stored image
func DeleteProduct(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")

		var product models.Product
		if err := db.Where("product_code = ?", code).First(&product).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Product not found"})
		}

		if product.ImageURL != "" {
			os.Remove(filepath.Join(".", product.ImageURL))
		}

		result := db.Delete(&product)
		if result.Error != nil {
			log.Printf("Error deleting product: %v", result.Error)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to delete product"})
		}

		return c.JSON(fiber.Map{"success": true, "message": "Product deleted successfully"})
	}
}
