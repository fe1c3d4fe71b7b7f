package services

import (
	"fmt"

	"github.com/truong-nd12/milktea-order-api/models"
)

// MockCatalogService is an in-memory CatalogInterface for testing
type MockCatalogService struct {
	Products map[uint]*models.Product
}

// NewMockCatalogService creates an empty mock catalog
func NewMockCatalogService() *MockCatalogService {
	return &MockCatalogService{Products: make(map[uint]*models.Product)}
}

// AddProduct registers a product in the mock catalog
func (m *MockCatalogService) AddProduct(product *models.Product) {
	m.Products[product.ID] = product
}

// GetProduct returns the registered product or ErrProductNotFound
func (m *MockCatalogService) GetProduct(productID uint) (*models.Product, error) {
	product, ok := m.Products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	return product, nil
}
