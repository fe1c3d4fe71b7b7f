package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truong-nd12/milktea-order-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testShippingFee = 15000.0
	testTaxRate     = 0.10
)

func newTestOrderService(db *gorm.DB) *OrderService {
	logger := zap.NewNop()
	numbers := NewOrderNumberService(db, 5, logger)
	return NewOrderService(db, NewCatalogService(db), numbers, testShippingFee, testTaxRate, logger)
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	user := &models.User{
		Auth0ID: "auth0|customer123",
		Name:    "Customer User",
		Email:   "customer@example.com",
		Role:    "customer",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	require.NoError(t, db.Create(testProduct()).Error)
	require.NoError(t, db.Create(&models.Product{
		ID:    2,
		Name:  "Taro Smoothie",
		Price: 45000,
	}).Error)
}

func TestCreateOrder(t *testing.T) {
	db := setupServiceTestDB(t)
	seedCatalog(t, db)
	user := seedUser(t, db)
	svc := newTestOrderService(db)

	input := CreateOrderInput{
		Items: []CartEntry{
			{ProductID: 1, Quantity: 2, Size: strPtr("L"), AddOns: []string{"Pearls"}, SugarLevel: strPtr("50%")},
			{ProductID: 2, Quantity: 1},
		},
		ShippingAddress: models.ShippingAddress{
			FullName:    "Customer User",
			Phone:       "0900000000",
			AddressLine: "12 Nguyen Trai",
			City:        "Ho Chi Minh City",
		},
		PaymentMethod:  "cod",
		DeliveryMethod: models.DeliveryMethodDelivery,
		Notes:          "less ice please",
	}

	order, err := svc.CreateOrder(user.ID, input)
	require.NoError(t, err)
	require.NotNil(t, order)

	// 2 x 35000 (size L) + 1 x 45000
	assert.Equal(t, 115000.0, order.TotalAmount)
	assert.Equal(t, testShippingFee, order.ShippingFee)
	assert.Equal(t, 11500.0, order.Tax)
	assert.Equal(t, order.TotalAmount+order.ShippingFee+order.Tax, order.FinalAmount)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, user.ID, order.UserID)

	// Line items persisted in order of entry with frozen prices
	require.Len(t, order.Items, 2)
	assert.Equal(t, uint(1), order.Items[0].ProductID)
	assert.Equal(t, 35000.0, order.Items[0].ItemPrice)
	require.Len(t, order.Items[0].AddOns, 1)
	assert.Equal(t, "Pearls", order.Items[0].AddOns[0].Name)
	assert.Equal(t, uint(2), order.Items[1].ProductID)
	assert.Equal(t, 45000.0, order.Items[1].ItemPrice)
}

func TestCreateOrder_PickupHasNoShippingFee(t *testing.T) {
	db := setupServiceTestDB(t)
	seedCatalog(t, db)
	user := seedUser(t, db)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(user.ID, CreateOrderInput{
		Items:          []CartEntry{{ProductID: 2, Quantity: 1}},
		PaymentMethod:  "card",
		DeliveryMethod: models.DeliveryMethodPickup,
	})
	require.NoError(t, err)

	assert.Equal(t, 45000.0, order.TotalAmount)
	assert.Equal(t, 0.0, order.ShippingFee)
	assert.Equal(t, 4500.0, order.Tax)
	assert.Equal(t, 49500.0, order.FinalAmount)
}

func TestCreateOrder_AllOrNothing(t *testing.T) {
	db := setupServiceTestDB(t)
	seedCatalog(t, db)
	user := seedUser(t, db)
	svc := newTestOrderService(db)

	tests := []struct {
		name        string
		input       CreateOrderInput
		expectedErr error
	}{
		{
			name: "unlisted size fails the whole cart",
			input: CreateOrderInput{
				Items: []CartEntry{
					{ProductID: 2, Quantity: 1},
					{ProductID: 1, Quantity: 1, Size: strPtr("XL")},
				},
				PaymentMethod:  "cod",
				DeliveryMethod: models.DeliveryMethodPickup,
			},
			expectedErr: ErrInvalidOption,
		},
		{
			name: "unknown product fails the whole cart",
			input: CreateOrderInput{
				Items: []CartEntry{
					{ProductID: 1, Quantity: 1},
					{ProductID: 99, Quantity: 1},
				},
				PaymentMethod:  "cod",
				DeliveryMethod: models.DeliveryMethodPickup,
			},
			expectedErr: ErrProductNotFound,
		},
		{
			name: "empty cart",
			input: CreateOrderInput{
				PaymentMethod:  "cod",
				DeliveryMethod: models.DeliveryMethodPickup,
			},
			expectedErr: ErrEmptyOrder,
		},
		{
			name: "unknown delivery method",
			input: CreateOrderInput{
				Items:          []CartEntry{{ProductID: 1, Quantity: 1}},
				PaymentMethod:  "cod",
				DeliveryMethod: "drone",
			},
			expectedErr: ErrInvalidDeliveryMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := svc.CreateOrder(user.ID, tt.input)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, order)

			// Nothing may be persisted on failure
			var orderCount, lineCount int64
			require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
			require.NoError(t, db.Model(&models.LineItem{}).Count(&lineCount).Error)
			assert.Equal(t, int64(0), orderCount)
			assert.Equal(t, int64(0), lineCount)
		})
	}
}

func TestCreateOrder_ConcurrentNumbersUnique(t *testing.T) {
	db := setupSharedTestDB(t, "order_create_concurrency")
	seedCatalog(t, db)
	user := seedUser(t, db)
	svc := newTestOrderService(db)

	const workers = 20

	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := svc.CreateOrder(user.ID, CreateOrderInput{
				Items:          []CartEntry{{ProductID: 2, Quantity: 1}},
				PaymentMethod:  "cod",
				DeliveryMethod: models.DeliveryMethodPickup,
			})
			if err != nil {
				errs <- err
				return
			}
			numbers <- order.OrderNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent CreateOrder failed: %v", err)
	}

	seen := make(map[string]bool)
	for number := range numbers {
		assert.False(t, seen[number], "duplicate order number %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, workers)
}

func TestUpdateStatus(t *testing.T) {
	db := setupServiceTestDB(t)
	seedCatalog(t, db)
	user := seedUser(t, db)
	svc := newTestOrderService(db)

	createPending := func(t *testing.T) *models.Order {
		order, err := svc.CreateOrder(user.ID, CreateOrderInput{
			Items:          []CartEntry{{ProductID: 1, Quantity: 1}},
			PaymentMethod:  "cod",
			DeliveryMethod: models.DeliveryMethodPickup,
		})
		require.NoError(t, err)
		return order
	}

	t.Run("walks the full lifecycle", func(t *testing.T) {
		order := createPending(t)

		for _, next := range []models.OrderStatus{
			models.StatusConfirmed,
			models.StatusProcessing,
			models.StatusShipped,
			models.StatusDelivered,
		} {
			updated, err := svc.UpdateStatus(order.ID, next, "")
			require.NoError(t, err)
			assert.Equal(t, next, updated.Status)
			// the monetary invariant survives every update
			assert.Equal(t, updated.TotalAmount+updated.ShippingFee+updated.Tax, updated.FinalAmount)
		}
	})

	t.Run("pending to cancelled records the reason", func(t *testing.T) {
		order := createPending(t)

		updated, err := svc.UpdateStatus(order.ID, models.StatusCancelled, "customer changed their mind")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, updated.Status)
		require.NotNil(t, updated.CancelReason)
		assert.Equal(t, "customer changed their mind", *updated.CancelReason)
	})

	t.Run("skipping states is rejected", func(t *testing.T) {
		order := createPending(t)

		updated, err := svc.UpdateStatus(order.ID, models.StatusShipped, "")
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
		assert.Nil(t, updated)
	})

	t.Run("terminal states reject everything", func(t *testing.T) {
		order := createPending(t)
		_, err := svc.UpdateStatus(order.ID, models.StatusCancelled, "no stock")
		require.NoError(t, err)

		for _, next := range []models.OrderStatus{
			models.StatusPending,
			models.StatusConfirmed,
			models.StatusProcessing,
			models.StatusShipped,
			models.StatusDelivered,
		} {
			_, err := svc.UpdateStatus(order.ID, next, "")
			assert.ErrorIs(t, err, ErrInvalidStatusTransition, "cancelled -> %s must fail", next)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		order := createPending(t)

		_, err := svc.UpdateStatus(order.ID, models.OrderStatus("teleported"), "")
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := svc.UpdateStatus(99999, models.StatusConfirmed, "")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestGetOrderByID(t *testing.T) {
	db := setupServiceTestDB(t)
	seedCatalog(t, db)
	user := seedUser(t, db)
	svc := newTestOrderService(db)

	created, err := svc.CreateOrder(user.ID, CreateOrderInput{
		Items:          []CartEntry{{ProductID: 1, Quantity: 3}},
		PaymentMethod:  "cod",
		DeliveryMethod: models.DeliveryMethodPickup,
	})
	require.NoError(t, err)

	loaded, err := svc.GetOrderByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.OrderNumber, loaded.OrderNumber)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 3, loaded.Items[0].Quantity)
	assert.Equal(t, user.Email, loaded.User.Email)

	_, err = svc.GetOrderByID(99999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	db := setupServiceTestDB(t)
	seedCatalog(t, db)
	user := seedUser(t, db)
	other := &models.User{Auth0ID: "auth0|other", Name: "Other", Email: "other@example.com", Role: "customer"}
	require.NoError(t, db.Create(other).Error)
	svc := newTestOrderService(db)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(user.ID, CreateOrderInput{
			Items:          []CartEntry{{ProductID: 1, Quantity: 1}},
			PaymentMethod:  "cod",
			DeliveryMethod: models.DeliveryMethodPickup,
		})
		require.NoError(t, err)
	}
	otherOrder, err := svc.CreateOrder(other.ID, CreateOrderInput{
		Items:          []CartEntry{{ProductID: 2, Quantity: 1}},
		PaymentMethod:  "cod",
		DeliveryMethod: models.DeliveryMethodPickup,
	})
	require.NoError(t, err)

	t.Run("filter by user", func(t *testing.T) {
		orders, total, err := svc.ListOrders(ListOrdersFilter{UserID: &user.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, orders, 3)
	})

	t.Run("filter by status", func(t *testing.T) {
		_, err := svc.UpdateStatus(otherOrder.ID, models.StatusConfirmed, "")
		require.NoError(t, err)

		confirmed := models.StatusConfirmed
		orders, total, err := svc.ListOrders(ListOrdersFilter{Status: &confirmed})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, otherOrder.ID, orders[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		orders, total, err := svc.ListOrders(ListOrdersFilter{Page: 2, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, orders, 1)
	})
}
