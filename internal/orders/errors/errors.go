package errors

import "errors"

var (
	ErrNotFound = errors.New("order not found")

	ErrInvalidID = errors.New("invalid order ID")

	ErrStatusChanged = errors.New("order status changed by another request")
)
