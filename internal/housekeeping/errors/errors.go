package errors

import "errors"

var (
	ErrNotFound = errors.New("housekeeping request not found")

	ErrInvalidID = errors.New("invalid housekeeping request ID")

	ErrStatusChanged = errors.New("housekeeping request status changed by another request")
)
