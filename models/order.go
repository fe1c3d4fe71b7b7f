package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// statusTransitions is the single enforcement point for status changes:
// current state -> allowed next states. Terminal states map to nothing.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is permitted from s
func (s OrderStatus) IsTerminal() bool {
	next, ok := statusTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the transition s -> next is allowed
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Delivery methods
const (
	DeliveryMethodDelivery = "delivery"
	DeliveryMethodPickup   = "pickup"
)

// ShippingAddress is embedded into Order; all fields optional for pickup
type ShippingAddress struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	Ward        string `json:"ward"`
	District    string `json:"district"`
	City        string `json:"city"`
}

// Order represents a placed order with its frozen monetary totals
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items           []LineItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	TotalAmount     float64         `gorm:"not null" json:"total_amount"`
	ShippingFee     float64         `gorm:"not null" json:"shipping_fee"`
	Tax             float64         `gorm:"not null" json:"tax"`
	FinalAmount     float64         `gorm:"not null" json:"final_amount"`
	Status          OrderStatus     `gorm:"not null;default:'pending'" json:"status"`
	PaymentMethod   string          `gorm:"not null" json:"payment_method"`
	PaymentStatus   string          `gorm:"not null;default:'unpaid'" json:"payment_status"`
	DeliveryMethod  string          `gorm:"not null" json:"delivery_method"` // "delivery" or "pickup"
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	Notes           string          `json:"notes"`
	CancelReason    *string         `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Recalculate recomputes FinalAmount from its components.
// FinalAmount is never mutated independently.
func (o *Order) Recalculate() {
	o.FinalAmount = o.TotalAmount + o.ShippingFee + o.Tax
}

// LineItem is one priced entry within an order. ItemPrice and the add-on
// snapshots are frozen at creation time, independent of later catalog edits.
type LineItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;index" json:"order_id"`
	ProductID  uint            `gorm:"not null;index" json:"product_id"`
	Quantity   int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	ItemPrice  float64         `gorm:"not null" json:"item_price"`
	Size       *string         `json:"size,omitempty"`
	SugarLevel *string         `json:"sugar_level,omitempty"`
	IceLevel   *string         `json:"ice_level,omitempty"`
	AddOns     []LineItemAddOn `gorm:"foreignKey:LineItemID" json:"add_ons,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName specifies the table name for the LineItem model
func (LineItem) TableName() string {
	return "line_items"
}

// Subtotal returns the line's contribution to the order total
func (li *LineItem) Subtotal() float64 {
	return li.ItemPrice * float64(li.Quantity)
}

// LineItemAddOn is a name/price/calorie snapshot of a selected add-on,
// not a live reference into the catalog
type LineItemAddOn struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	LineItemID uint    `gorm:"not null;index" json:"line_item_id"`
	Name       string  `gorm:"not null" json:"name"`
	Price      float64 `gorm:"not null" json:"price"`
	Calories   int     `json:"calories"`
}

// TableName specifies the table name for the LineItemAddOn model
func (LineItemAddOn) TableName() string {
	return "line_item_add_ons"
}
