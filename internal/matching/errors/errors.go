package errors

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")

	ErrApplicationNotFound = errors.New("partner application not found")

	ErrInvalidID = errors.New("invalid service ID format")
)
