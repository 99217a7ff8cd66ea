package protocol

import (
	"errors"
	"fmt"

	"github.com/danmuck/lwcp/internal/protocol/frame"
)

var (
	ErrInvalidIdentifier = errors.New("protocol: invalid identifier")
	ErrInvalidToken      = errors.New("protocol: invalid token")
	ErrInvalidOperation  = errors.New("protocol: invalid operation")
	ErrInvalidObject     = errors.New("protocol: invalid object")
	ErrInvalidProperty   = errors.New("protocol: invalid property")
	ErrUnparseableValue  = errors.New("protocol: unparseable value")
	ErrPropertyNotFound  = errors.New("protocol: property not found")
	ErrEmptyMessage      = errors.New("protocol: no message")
	ErrSyntax            = errors.New("protocol: message syntax error")
	ErrBadType           = errors.New("protocol: incorrect type")

	ErrIncompleteMessage = frame.ErrIncomplete
	ErrBufferOverflow    = frame.ErrBufferOverflow
	ErrMessageTooLarge   = frame.ErrMessageTooLarge
)

// ParseError reports a value-level failure and where it happened.
type ParseError struct {
	Input  string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v at offset %d: %q", e.Err, e.Offset, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
