package orders

import "errors"

var (
	ErrEmptyOrder        = errors.New("order has no items")
	ErrItemUnavailable   = errors.New("menu item unavailable")
	ErrInvalidMethod     = errors.New("invalid payment method")
	ErrInvalidTransition = errors.New("invalid order status transition")
)
