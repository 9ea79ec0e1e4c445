package services

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any CRM call when no access token is set
var ErrNotConfigured = errors.New("CRM access token is not configured")

// ValidationError means a required property is missing after classification
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field string) error {
	return &ValidationError{Field: field}
}

// LookupError is a failed contact search. It is logged and read as "not found".
type LookupError struct {
	Property string
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("contact lookup by %s failed: %v", e.Property, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// UpsertError is a failed create or update call
type UpsertError struct {
	Op  string
	Err error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("contact %s failed: %v", e.Op, e.Err)
}

func (e *UpsertError) Unwrap() error { return e.Err }
