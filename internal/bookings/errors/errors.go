package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusConflict means the conditional status write matched no
	// document because the stored status moved under us.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)
