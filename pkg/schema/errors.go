package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when oracle content is not a JSON object at all.
var ErrMalformed = errors.New("malformed structured output")

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // JSON pointer of the offending field
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %T)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Contract string
	Errors   []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s: %s", e.Contract, e.Errors[0].Error())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d validation errors:\n", e.Contract, len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Unwrap exposes the individual failures to errors.Is / errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

// IsRecoverable reports whether err came from decoding or validating
// structured output, as opposed to a transport or cancellation failure.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMalformed) {
		return true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var aggr *AggregateError
	return errors.As(err, &aggr)
}
