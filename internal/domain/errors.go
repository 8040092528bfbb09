package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidationFailed      = errors.New("validation failed")
	ErrCancelled             = errors.New("order creation cancelled")
	ErrPersistenceFailed     = errors.New("persistence failed")
	ErrTaxServiceUnavailable = errors.New("tax service unavailable")
	ErrCurrencyMismatch      = errors.New("currency mismatch")
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidID             = errors.New("invalid id")
)

// ValidationError carries every rule violation found in a request.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
