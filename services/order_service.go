package services

import (
	"errors"
	"fmt"

	"github.com/truong-nd12/milktea-order-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateOrderInput carries everything needed to place an order
type CreateOrderInput struct {
	Items           []CartEntry
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	DeliveryMethod  string
	Notes           string
}

// ListOrdersFilter narrows and pages ListOrders results
type ListOrdersFilter struct {
	UserID *uint
	Status *models.OrderStatus
	Page   int
	Limit  int
}

// OrderService is the order ledger: it assembles priced line items into a
// durable, uniquely numbered order and owns the status state machine.
type OrderService struct {
	db          *gorm.DB
	lineItems   *LineItemService
	numbers     *OrderNumberService
	shippingFee float64
	taxRate     float64
	logger      *zap.Logger
}

// NewOrderService wires the ledger with its collaborators
func NewOrderService(db *gorm.DB, catalog CatalogInterface, numbers *OrderNumberService, shippingFee, taxRate float64, logger *zap.Logger) *OrderService {
	return &OrderService{
		db:          db,
		lineItems:   NewLineItemService(catalog),
		numbers:     numbers,
		shippingFee: shippingFee,
		taxRate:     taxRate,
		logger:      logger,
	}
}

// CreateOrder builds every line item first, computes the totals, requests an
// order number and persists order plus lines in a single transaction. Any
// failure leaves nothing behind: a cart with one bad entry produces no order
// and no line items.
func (s *OrderService) CreateOrder(userID uint, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if input.DeliveryMethod != models.DeliveryMethodDelivery && input.DeliveryMethod != models.DeliveryMethodPickup {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDeliveryMethod, input.DeliveryMethod)
	}

	lines := make([]models.LineItem, 0, len(input.Items))
	totalAmount := 0.0
	for _, entry := range input.Items {
		line, err := s.lineItems.BuildLine(entry)
		if err != nil {
			s.logger.Warn("order rejected: cart entry failed to build",
				zap.Uint("user_id", userID),
				zap.Uint("product_id", entry.ProductID),
				zap.Error(err))
			return nil, err
		}
		lines = append(lines, *line)
		totalAmount += line.Subtotal()
	}

	shippingFee := 0.0
	if input.DeliveryMethod == models.DeliveryMethodDelivery {
		shippingFee = s.shippingFee
	}
	tax := totalAmount * s.taxRate

	number, err := s.numbers.Next()
	if err != nil {
		return nil, err
	}

	order := models.Order{
		OrderNumber:     number,
		UserID:          userID,
		Items:           lines,
		TotalAmount:     totalAmount,
		ShippingFee:     shippingFee,
		Tax:             tax,
		Status:          models.StatusPending,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   "unpaid",
		DeliveryMethod:  input.DeliveryMethod,
		ShippingAddress: input.ShippingAddress,
		Notes:           input.Notes,
	}
	order.Recalculate()

	// Order and line items commit together or not at all
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	})
	if err != nil {
		s.logger.Error("failed to persist order",
			zap.Uint("user_id", userID),
			zap.String("order_number", number),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	s.logger.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("final_amount", order.FinalAmount),
		zap.Int("line_count", len(order.Items)))

	return s.GetOrderByID(order.ID)
}

// GetOrderByID returns the order with its line items and user resolved
func (s *OrderService) GetOrderByID(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			// preserve order of entry
			return db.Order("line_items.id ASC")
		}).
		Preload("Items.AddOns").
		Preload("User").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	return &order, nil
}

// ListOrders returns a page of orders, newest first, with the total count
func (s *OrderService) ListOrders(filter ListOrdersFilter) ([]models.Order, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	query := s.db.Model(&models.Order{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_items.id ASC")
		}).
		Preload("Items.AddOns").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus applies an administrator-triggered status transition. The
// transition table in models is consulted before anything changes; terminal
// states reject every transition.
func (s *OrderService) UpdateStatus(orderID uint, newStatus models.OrderStatus, cancelReason string) (*models.Order, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatusTransition, newStatus)
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}

	if !order.Status.CanTransitionTo(newStatus) {
		s.logger.Warn("status transition rejected",
			zap.Uint("order_id", orderID),
			zap.String("from", string(order.Status)),
			zap.String("to", string(newStatus)))
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, order.Status, newStatus)
	}

	order.Status = newStatus
	if newStatus == models.StatusCancelled && cancelReason != "" {
		order.CancelReason = &cancelReason
	}
	order.Recalculate()

	if err := s.db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	s.logger.Info("order status updated",
		zap.Uint("order_id", orderID),
		zap.String("status", string(newStatus)))

	return s.GetOrderByID(orderID)
}
