package errors

import "errors"

var (
	ErrNotFound = errors.New("room not found")

	ErrStatusChanged = errors.New("room status changed by another request")

	ErrInvalidNumberFilter = errors.New("room number filter must contain digits only")
)
