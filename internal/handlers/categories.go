package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/XylonMarkLabs/justpos-backend/internal/models"
)

// CategoryRequest defines the structure for creating/updating a category
type CategoryRequest struct {
	CategoryName string `json:"categoryName" validate:"required"`
	Description  string `json:"description"`
}

// GetCategories handles fetching all categories
func GetCategories(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.Category
		if err := db.Order("category_name").Find(&categories).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to fetch categories"})
		}

		return c.JSON(fiber.Map{"success": true, "categories": categories})
	}
}

// AddCategory handles creating a new category
func AddCategory(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CategoryRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
		}
		if req.CategoryName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "categoryName is required"})
		}

		var existing models.Category
		if err := db.Where("category_name = ?", req.CategoryName).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "error": "Category with this name already exists"})
		}

		category := models.Category{
			CategoryName: req.CategoryName,
			Description:  req.Description,
		}

		if err := db.Create(&category).Error; err != nil {
			log.Printf("Error creating category: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to create category"})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "category": category})
	}
}

// UpdateCategory handles updating an existing category
func UpdateCategory(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid category ID"})
		}

		var req CategoryRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
		}

		// name collision check, excluding the category itself
		var existing models.Category
		if err := db.Where("category_name = ? AND id != ?", req.CategoryName, id).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "error": "Another category with this name already exists"})
		}

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Category not found"})
		}

		// products keep referencing the category by label; rename them along
		oldName := category.CategoryName
		category.CategoryName = req.CategoryName
		category.Description = req.Description

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&category).Error; err != nil {
				return err
			}
			if oldName != req.CategoryName {
				if err := tx.Model(&models.Product{}).Where("category = ?", oldName).
					Update("category", req.CategoryName).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("Error updating category: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to update category"})
		}

		return c.JSON(fiber.Map{"success": true, "category": category})
	}
}

// DeleteCategory handles deleting a category that no product references
func DeleteCategory(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid category ID"})
		}

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Category not found"})
		}

		var productCount int64
		db.Model(&models.Product{}).Where("category = ?", category.CategoryName).Count(&productCount)
		if productCount > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "error": "Cannot delete category, it is assigned to one or more products"})
		}

		if err := db.Delete(&category).Error; err != nil {
			log.Printf("Error deleting category: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to delete category"})
		}

		return c.JSON(fiber.Map{"success": true, "message": "Category deleted successfully"})
	}
}
