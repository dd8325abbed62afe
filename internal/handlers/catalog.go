package handlers

import (
	"context"

	"gorm.io/gorm"

	"github.com/XylonMarkLabs/justpos-backend/internal/models"
)

// ProductFinder is the slice of the catalog the cart and checkout handlers
// need: resolving a product code to its current catalog entry.
type ProductFinder interface {
	FindByCode(ctx context.Context, code string) (*models.Product, error)
}

// GormCatalog resolves products from the database.
type GormCatalog struct {
	DB *gorm.DB
}

func (g GormCatalog) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	if err := g.DB.WithContext(ctx).Where("product_code = ?", code).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
