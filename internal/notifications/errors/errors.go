package errors

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	// ErrTokenConflict means the conditional token replacement matched no
	// document because the stored set changed since it was read.
	ErrTokenConflict = errors.New("device token set changed concurrently")
)
