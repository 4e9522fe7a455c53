// Package validation lints a single skill directory against the Agent Skills
// frontmatter rules and reports what it finds as model.Finding values.
package validation

import (
	"errors"
	"fmt"
)

// Error represents a filesystem failure hit while linting, with context.
type Error struct {
	// Field is the path or component that failed
	Field string
	// Message describes the failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Unwrap exposes the collected errors to errors.Is/As.
func (ve Errors) Unwrap() []error {
	return ve
}

// Err returns nil for an empty collection, the single error for one entry,
// and the collection otherwise.
func (ve Errors) Err() error {
	switch len(ve) {
	case 0:
		return nil
	case 1:
		return ve[0]
	default:
		return ve
	}
}
