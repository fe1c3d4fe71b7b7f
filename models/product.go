package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a drink on the menu. Sizes, add-ons and sugar/ice
// options describe what a customer may pick; line items snapshot the chosen
// values so later menu edits never touch past orders.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Price       float64         `gorm:"not null;check:price >= 0" json:"price"`
	Sizes       []ProductSize   `gorm:"foreignKey:ProductID" json:"sizes,omitempty"`
	AddOns      []ProductAddOn  `gorm:"foreignKey:ProductID" json:"add_ons,omitempty"`
	Options     []ProductOption `gorm:"foreignKey:ProductID" json:"options,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ProductSize is a size variant with its own price (e.g. M, L)
type ProductSize struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Name      string  `gorm:"not null" json:"name"`
	Price     float64 `gorm:"not null;check:price >= 0" json:"price"`
}

// TableName specifies the table name for the ProductSize model
func (ProductSize) TableName() string {
	return "product_sizes"
}

// ProductAddOn is an optional extra (e.g. pearls, pudding)
type ProductAddOn struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Name      string  `gorm:"not null" json:"name"`
	Price     float64 `gorm:"not null;check:price >= 0" json:"price"`
	Calories  int     `json:"calories"`
}

// TableName specifies the table name for the ProductAddOn model
func (ProductAddOn) TableName() string {
	return "product_add_ons"
}

// Option kinds for ProductOption
const (
	OptionKindSugar = "sugar"
	OptionKindIce   = "ice"
)

// ProductOption is one allowed sugar or ice level for a product
type ProductOption struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Kind      string `gorm:"not null" json:"kind"` // "sugar" or "ice"
	Value     string `gorm:"not null" json:"value"`
}

// TableName specifies the table name for the ProductOption model
func (ProductOption) TableName() string {
	return "product_options"
}

// FindSize returns the size variant with the given name, or nil
func (p *Product) FindSize(name string) *ProductSize {
	for i := range p.Sizes {
		if p.Sizes[i].Name == name {
			return &p.Sizes[i]
		}
	}
	return nil
}

// FindAddOn returns the add-on with the given name, or nil
func (p *Product) FindAddOn(name string) *ProductAddOn {
	for i := range p.AddOns {
		if p.AddOns[i].Name == name {
			return &p.AddOns[i]
		}
	}
	return nil
}

// HasOption reports whether value is a declared option of the given kind
func (p *Product) HasOption(kind, value string) bool {
	for _, opt := range p.Options {
		if opt.Kind == kind && opt.Value == value {
			return true
		}
	}
	return false
}
