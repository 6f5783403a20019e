package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage is returned when a request carries no user message.
var ErrEmptyMessage = errors.New("message is required")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidRoute is returned when a routing answer is not an entry agent name.
var ErrInvalidRoute = errors.New("invalid route")

// ErrFieldAlreadyWritten is the sentinel matched by FieldWrittenError.
var ErrFieldAlreadyWritten = errors.New("state field already written")

// FieldWrittenError reports a second write to a write-once state field.
type FieldWrittenError struct {
	Field string
}

func (e *FieldWrittenError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFieldAlreadyWritten, e.Field)
}

func (e *FieldWrittenError) Unwrap() error {
	return ErrFieldAlreadyWritten
}

// OracleError wraps a failure reaching the reasoning oracle.
// It is fatal for the run that produced it.
type OracleError struct {
	Step AgentName
	Err  error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle invocation failed at %s: %v", e.Step, e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

// IsOracleError reports whether err carries an OracleError.
func IsOracleError(err error) bool {
	var oe *OracleError
	return errors.As(err, &oe)
}
