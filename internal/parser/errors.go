// ABOUTME: Error types for reading validation.
// ABOUTME: ValidationError carries every FieldError found in one input.
package parser

import (
	"errors"
	"strings"
)

// ErrValidation matches any *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ErrorKind classifies a single field problem.
type ErrorKind string

const (
	EmptyInput    ErrorKind = "empty_input"
	InvalidFormat ErrorKind = "invalid_format"
	NotANumber    ErrorKind = "not_a_number"
	OutOfRange    ErrorKind = "out_of_range"
	Required      ErrorKind = "required"
)

// FieldError describes one problem with one field.
type FieldError struct {
	Field   string
	Kind    ErrorKind
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// ValidationError groups all field errors for a single input.
type ValidationError struct {
	Errors []FieldError
}

func newValidationError(errs ...FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Is reports ErrValidation as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Messages returns the user-facing message of each field error, in order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return msgs
}

// Has reports whether any field error has the given kind.
func (e *ValidationError) Has(kind ErrorKind) bool {
	for _, fe := range e.Errors {
		if fe.Kind == kind {
			return true
		}
	}
	return false
}
