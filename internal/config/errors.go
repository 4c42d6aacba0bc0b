package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig marks missing or invalid required input.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMalformedOverride marks an override value that could not be parsed.
	ErrMalformedOverride = errors.New("malformed override")
)

// FieldError reports a configuration problem with a single input key.
type FieldError struct {
	Field   string
	Message string
	Kind    error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the error kind so callers can use errors.Is.
func (e *FieldError) Unwrap() error {
	return e.Kind
}

func requiredError(field string) error {
	return &FieldError{Field: field, Message: "is required", Kind: ErrInvalidConfig}
}

func invalidError(field string, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...), Kind: ErrInvalidConfig}
}

func malformedError(field string, err error) error {
	return &FieldError{Field: field, Message: fmt.Sprintf("failed to parse: %v", err), Kind: ErrMalformedOverride}
}
