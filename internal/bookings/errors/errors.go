package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrDatesUnavailable = errors.New("listing is not available for the requested dates")
)
