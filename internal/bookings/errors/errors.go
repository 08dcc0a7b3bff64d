package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrStatusChanged = errors.New("booking status changed by another request")

	ErrInvalidDateRange = errors.New("check-out must be after check-in")

	ErrCheckInPast = errors.New("check-in cannot be in the past")
)
