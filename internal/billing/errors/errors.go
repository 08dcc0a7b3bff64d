package errors

import "errors"

var (
	ErrNotFound = errors.New("invoice not found")

	ErrInvalidID = errors.New("invalid invoice ID")

	ErrStatusChanged = errors.New("invoice payment status changed by another request")

	// ErrAlreadyRaised means an invoice for the same source document exists.
	ErrAlreadyRaised = errors.New("invoice already raised for source")
)
