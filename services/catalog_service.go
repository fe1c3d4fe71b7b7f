package services

import (
	"errors"
	"fmt"

	"github.com/truong-nd12/milktea-order-api/models"
	"gorm.io/gorm"
)

// CatalogInterface resolves a product id to the current catalog entry.
// The order core only reads the catalog; it never writes to it.
type CatalogInterface interface {
	GetProduct(productID uint) (*models.Product, error)
}

// CatalogService is the gorm-backed catalog reader
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a catalog reader on the given database
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// GetProduct loads a product with its sizes, add-ons and option sets
func (s *CatalogService) GetProduct(productID uint) (*models.Product, error) {
	var product models.Product
	err := s.db.
		Preload("Sizes").
		Preload("AddOns").
		Preload("Options").
		First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	return &product, nil
}
