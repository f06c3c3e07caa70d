package simdfix

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by [Reader] and [Writer].
var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidRecord = errors.New("record is missing MsgType or Symbol")
)

// DefaultMaxInputSize is the default maximum input size (2GB).
const DefaultMaxInputSize = 2 * 1024 * 1024 * 1024

// ParseError reports a problem with one message of a stream.
type ParseError struct {
	Line int   // 1-indexed line of the message
	Err  error // Underlying error
}

// Error returns a formatted error message with location information.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error for use with [errors.Is] and [errors.As].
func (e *ParseError) Unwrap() error {
	return e.Err
}
