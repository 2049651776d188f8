// Package errors provides the standardized error type used across all frame
// operations. Every failure carries an operation name, the offending column
// where applicable, and a Kind classifying it for programmatic handling.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an Error into one of the closed failure categories.
type Kind uint8

const (
	// KindType marks operations incompatible with a column's logical type.
	KindType Kind = iota
	// KindValue marks malformed parameters or domain violations.
	KindValue
	// KindShape marks row/column arity mismatches.
	KindShape
	// KindNotImplemented marks explicitly unsupported combinations.
	KindNotImplemented
	// KindCancelled marks a user-triggered interrupt of a parallel computation.
	KindCancelled
	// KindIO marks serialization and file access failures.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindValue:
		return "value"
	case KindShape:
		return "shape"
	case KindNotImplemented:
		return "not implemented"
	case KindCancelled:
		return "cancelled"
	default:
		return "io"
	}
}

// Error is the standardized error for frame operations.
type Error struct {
	Kind    Kind
	Op      string // operation name, e.g. "SetKey", "Rbind", "sum"
	Column  string // column name if applicable
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: column '%s': %s", e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindType})
// style sentinels work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}
	return t.Kind == e.Kind
}

// NewTypeError reports an operation applied to an incompatible column type.
func NewTypeError(op, column, format string, args ...any) *Error {
	return &Error{Kind: KindType, Op: op, Column: column, Message: fmt.Sprintf(format, args...)}
}

// NewValueError reports malformed parameters.
func NewValueError(op, column, format string, args ...any) *Error {
	return &Error{Kind: KindValue, Op: op, Column: column, Message: fmt.Sprintf(format, args...)}
}

// NewShapeError reports a row/column arity mismatch.
func NewShapeError(op, format string, args ...any) *Error {
	return &Error{Kind: KindShape, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NewNotImplementedError reports an explicitly unsupported combination.
func NewNotImplementedError(op, format string, args ...any) *Error {
	return &Error{Kind: KindNotImplemented, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NewCancelledError reports a cooperative cancellation.
func NewCancelledError(op string) *Error {
	return &Error{Kind: KindCancelled, Op: op, Message: "computation cancelled"}
}

// NewIOError reports a serialization or file access failure. When the final
// format argument is an error it is retained as the Cause, so errors.Is/As
// chains reach the underlying failure.
func NewIOError(op, format string, args ...any) *Error {
	e := &Error{Kind: KindIO, Op: op, Message: fmt.Sprintf(format, args...)}
	if len(args) > 0 {
		if cause, ok := args[len(args)-1].(error); ok {
			e.Cause = cause
		}
	}
	return e
}

// IsKind reports whether err (or anything it wraps) is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
