package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/truong-nd12/milktea-order-api/config"
	"github.com/truong-nd12/milktea-order-api/middleware"
	"github.com/truong-nd12/milktea-order-api/models"
	"github.com/truong-nd12/milktea-order-api/services"
)

// OrderItemRequest is one cart entry in the create-order request body
type OrderItemRequest struct {
	ProductID  uint     `json:"product_id" binding:"required"`
	Quantity   int      `json:"quantity" binding:"required,gt=0"`
	Size       *string  `json:"size"`
	AddOns     []string `json:"add_ons"`
	SugarLevel *string  `json:"sugar_level"`
	IceLevel   *string  `json:"ice_level"`
}

// ShippingAddressRequest mirrors models.ShippingAddress for binding
type ShippingAddressRequest struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	Ward        string `json:"ward"`
	District    string `json:"district"`
	City        string `json:"city"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	Items           []OrderItemRequest      `json:"items" binding:"required,min=1,dive"`
	ShippingAddress *ShippingAddressRequest `json:"shipping_address"`
	PaymentMethod   string                  `json:"payment_method" binding:"required"`
	DeliveryMethod  string                  `json:"delivery_method" binding:"required,oneof=delivery pickup"`
	Notes           string                  `json:"notes"`
}

// UpdateOrderStatusRequest represents the request body for a status change
type UpdateOrderStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	CancelReason string `json:"cancel_reason"`
}

// newOrderService assembles the order ledger over the current DB handle
func newOrderService() *services.OrderService {
	db := config.GetDB()
	cfg := config.GetConfig()
	logger := config.GetLogger()
	numbers := services.NewOrderNumberService(db, cfg.OrderNumberMaxRetries, logger)
	return services.NewOrderService(db, services.NewCatalogService(db), numbers, cfg.ShippingFee, cfg.TaxRate, logger)
}

// getCurrentUser resolves the authenticated user from the JWT subject.
// On failure it writes the error response and returns false.
func getCurrentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil, false
	}

	return &user, true
}

// respondOrderError maps service failures to the API error envelope
func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "PRODUCT_NOT_FOUND", "message": err.Error()},
		})
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "ORDER_NOT_FOUND", "message": "Order not found"},
		})
	case errors.Is(err, services.ErrInvalidOption):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_OPTION", "message": err.Error()},
		})
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInvalidDeliveryMethod):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "VALIDATION_ERROR", "message": err.Error()},
		})
	case errors.Is(err, services.ErrInvalidStatusTransition):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_STATUS_TRANSITION", "message": err.Error()},
		})
	case errors.Is(err, services.ErrNumberGenerationFailed):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "NUMBER_GENERATION_FAILED", "message": "Failed to generate order number"},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "DATABASE_ERROR", "message": "Failed to process order"},
		})
	}
}

// CreateOrder handles POST /api/v1/orders - places a new order
func CreateOrder(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}

	// Parse request body
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	input := services.CreateOrderInput{
		PaymentMethod:  req.PaymentMethod,
		DeliveryMethod: req.DeliveryMethod,
		Notes:          req.Notes,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, services.CartEntry{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Size:       item.Size,
			AddOns:     item.AddOns,
			SugarLevel: item.SugarLevel,
			IceLevel:   item.IceLevel,
		})
	}
	if req.ShippingAddress != nil {
		input.ShippingAddress = models.ShippingAddress{
			FullName:    req.ShippingAddress.FullName,
			Phone:       req.ShippingAddress.Phone,
			AddressLine: req.ShippingAddress.AddressLine,
			Ward:        req.ShippingAddress.Ward,
			District:    req.ShippingAddress.District,
			City:        req.ShippingAddress.City,
		}
	}

	order, err := newOrderService().CreateOrder(user.ID, input)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - customers see their own orders,
// staff and admins see everything
func ListOrders(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := services.ListOrdersFilter{Page: page, Limit: limit}
	if !user.IsStaff() {
		filter.UserID = &user.ID
	}
	if statusParam := c.Query("status"); statusParam != "" {
		status := models.OrderStatus(statusParam)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "VALIDATION_ERROR", "message": "Unknown status filter"},
			})
			return
		}
		filter.Status = &status
	}

	orders, total, err := newOrderService().ListOrders(filter)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "VALIDATION_ERROR", "message": "Invalid order id"},
		})
		return
	}

	order, err := newOrderService().GetOrderByID(uint(orderID))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	// Customers may only read their own orders
	if !user.IsStaff() && order.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to access this order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status (staff/admin only)
func UpdateOrderStatus(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}

	if !user.IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only staff can update order status",
			},
		})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "VALIDATION_ERROR", "message": "Invalid order id"},
		})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order, err := newOrderService().UpdateStatus(uint(orderID), models.OrderStatus(req.Status), req.CancelReason)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
