package services

import (
	"fmt"

	"github.com/truong-nd12/milktea-order-api/models"
)

// CartEntry is one requested line of a cart before pricing
type CartEntry struct {
	ProductID  uint     `json:"product_id"`
	Quantity   int      `json:"quantity"`
	Size       *string  `json:"size,omitempty"`
	AddOns     []string `json:"add_ons,omitempty"`
	SugarLevel *string  `json:"sugar_level,omitempty"`
	IceLevel   *string  `json:"ice_level,omitempty"`
}

// LineItemService turns cart entries into priced, immutable line items.
// It has no side effects: nothing is persisted here.
type LineItemService struct {
	catalog CatalogInterface
}

// NewLineItemService creates a builder over the given catalog reader
func NewLineItemService(catalog CatalogInterface) *LineItemService {
	return &LineItemService{catalog: catalog}
}

// BuildLine resolves the product and constructs a line item with the price
// and add-on details frozen at this moment. Later catalog edits must not
// change the value of a past order, so everything is copied, not referenced.
func (s *LineItemService) BuildLine(entry CartEntry) (*models.LineItem, error) {
	if entry.Quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, entry.Quantity)
	}

	product, err := s.catalog.GetProduct(entry.ProductID)
	if err != nil {
		return nil, err
	}

	// Base price, overridden by the selected size when the product has sizes
	itemPrice := product.Price
	if entry.Size != nil {
		size := product.FindSize(*entry.Size)
		if size == nil {
			return nil, fmt.Errorf("%w: size %q", ErrInvalidOption, *entry.Size)
		}
		itemPrice = size.Price
	}

	line := &models.LineItem{
		ProductID:  product.ID,
		Quantity:   entry.Quantity,
		ItemPrice:  itemPrice,
		Size:       entry.Size,
		SugarLevel: entry.SugarLevel,
		IceLevel:   entry.IceLevel,
	}

	for _, name := range entry.AddOns {
		addOn := product.FindAddOn(name)
		if addOn == nil {
			return nil, fmt.Errorf("%w: add-on %q", ErrInvalidOption, name)
		}
		line.AddOns = append(line.AddOns, models.LineItemAddOn{
			Name:     addOn.Name,
			Price:    addOn.Price,
			Calories: addOn.Calories,
		})
	}

	if entry.SugarLevel != nil && !product.HasOption(models.OptionKindSugar, *entry.SugarLevel) {
		return nil, fmt.Errorf("%w: sugar level %q", ErrInvalidOption, *entry.SugarLevel)
	}
	if entry.IceLevel != nil && !product.HasOption(models.OptionKindIce, *entry.IceLevel) {
		return nil, fmt.Errorf("%w: ice level %q", ErrInvalidOption, *entry.IceLevel)
	}

	return line, nil
}
