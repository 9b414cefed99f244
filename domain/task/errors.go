package task

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates a missing or invalid required field.
	ErrValidation = errors.New("validation error")
	// ErrNotFound indicates the referenced id does not resolve to a live task.
	ErrNotFound = errors.New("task not found")
	// ErrStore indicates an underlying persistence failure.
	ErrStore = errors.New("store error")
)

// Error codes carried across the service request/reply boundary, where
// sentinel identity does not survive serialization.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeStore      = "store_error"
)

// Code classifies err into one of the service error codes.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	default:
		return CodeStore
	}
}

// FromCode reconstructs a sentinel-wrapped error from a reply error code
// and message, so callers can keep using errors.Is across the boundary.
func FromCode(code, message string) error {
	switch code {
	case CodeValidation:
		return fmt.Errorf("%w: %s", ErrValidation, message)
	case CodeNotFound:
		if message == "" || message == ErrNotFound.Error() {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	default:
		return fmt.Errorf("%w: %s", ErrStore, message)
	}
}
