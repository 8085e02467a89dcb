package models

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the repository, service and handler layers.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAuthorization = errors.New("not the resource owner")
	ErrInvariant     = errors.New("operation not allowed")
	ErrValidation    = errors.New("invalid payload")
)

// ValidationError reports a single bad payload field. It unwraps to
// ErrValidation so callers can match the whole category with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func missingProperty(field string) error {
	return &ValidationError{Field: field, Reason: "must not be empty"}
}
