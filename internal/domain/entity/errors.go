package entity

import (
	"errors"
	"fmt"
)

// ErrDuplicateFingerprint indicates that an article with the same
// content fingerprint already exists in the store.
var ErrDuplicateFingerprint = errors.New("duplicate fingerprint")

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
