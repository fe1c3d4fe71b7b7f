package services

import "errors"

// Typed failures surfaced by the order core. Controllers match these with
// errors.Is and map them to response codes.
var (
	ErrProductNotFound         = errors.New("product not found")
	ErrInvalidOption           = errors.New("selected option is not available for this product")
	ErrInvalidQuantity         = errors.New("quantity must be at least 1")
	ErrEmptyOrder              = errors.New("order must have at least one item")
	ErrInvalidDeliveryMethod   = errors.New("delivery method must be 'delivery' or 'pickup'")
	ErrNumberGenerationFailed  = errors.New("failed to generate a unique order number")
	ErrPersistenceFailure      = errors.New("failed to persist order")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
	ErrOrderNotFound           = errors.New("order not found")
)
