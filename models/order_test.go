package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to shipped skips confirmed", StatusPending, StatusShipped, false},
		{"pending to delivered skips everything", StatusPending, StatusDelivered, false},
		{"confirmed to processing", StatusConfirmed, StatusProcessing, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed back to pending", StatusConfirmed, StatusPending, false},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"processing to cancelled", StatusProcessing, StatusCancelled, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to cancelled", StatusShipped, StatusCancelled, true},
		{"delivered is terminal", StatusDelivered, StatusCancelled, false},
		{"delivered back to pending", StatusDelivered, StatusPending, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"cancelled to delivered", StatusCancelled, StatusDelivered, false},
		{"no self transition", StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())

	for _, status := range []OrderStatus{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped} {
		assert.False(t, status.IsTerminal(), "status %s should not be terminal", status)
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, status := range []OrderStatus{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, status.Valid())
	}
	assert.False(t, OrderStatus("unknown").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderRecalculate(t *testing.T) {
	order := Order{
		TotalAmount: 35000,
		ShippingFee: 15000,
		Tax:         3500,
		FinalAmount: 999, // stale value must be overwritten
	}
	order.Recalculate()
	assert.Equal(t, 53500.0, order.FinalAmount)
}

func TestLineItemSubtotal(t *testing.T) {
	line := LineItem{Quantity: 3, ItemPrice: 10000}
	assert.Equal(t, 30000.0, line.Subtotal())
}
