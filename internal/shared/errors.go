// Package shared holds error types and the request validation boundary used
// across the catalog services.
package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a lookup by id/name/sku yielded no row.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates the request failed boundary validation.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError carries the resource type and the lookup key that missed.
// It matches ErrNotFound under errors.Is.
type NotFoundError struct {
	Resource string
	Field    string
	Value    any
}

// NewNotFound builds a NotFoundError for the given resource and lookup key.
func NewNotFound(resource, field string, value any) *NotFoundError {
	return &NotFoundError{Resource: resource, Field: field, Value: value}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s: '%v'", e.Resource, e.Field, e.Value)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
