// Package bferr defines the error kinds raised across the bitformat
// packages. Every kind wraps an underlying cause with github.com/pkg/errors
// so that Cause() and %+v keep the original context.
package bferr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValueError reports a bad literal, a size mismatch, a const mismatch, or a
// value out of range for its dtype.
type ValueError struct{ err error }

func (e *ValueError) Error() string { return e.err.Error() }
func (e *ValueError) Unwrap() error { return e.err }

// NewValue builds a ValueError from a format string.
func NewValue(format string, args ...interface{}) *ValueError {
	return &ValueError{err: errors.Errorf(format, args...)}
}

// WrapValue wraps cause as a ValueError with additional context.
func WrapValue(cause error, msg string) *ValueError {
	return &ValueError{err: errors.Wrap(cause, msg)}
}

// IndexError reports a bit position outside [0, len).
type IndexError struct{ err error }

func (e *IndexError) Error() string { return e.err.Error() }
func (e *IndexError) Unwrap() error { return e.err }

// NewIndex builds an IndexError for position pos against length n.
func NewIndex(pos, n int) *IndexError {
	return &IndexError{err: errors.Errorf("index %d out of range for length %d", pos, n)}
}

// ExpressionError reports an Expression parse failure, an unbound
// identifier, or a disallowed AST node.
type ExpressionError struct{ err error }

func (e *ExpressionError) Error() string { return e.err.Error() }
func (e *ExpressionError) Unwrap() error { return e.err }

// NewExpression builds an ExpressionError from a format string.
func NewExpression(format string, args ...interface{}) *ExpressionError {
	return &ExpressionError{err: errors.Errorf(format, args...)}
}

// WrapExpression wraps cause as an ExpressionError with additional context.
func WrapExpression(cause error, msg string) *ExpressionError {
	return &ExpressionError{err: errors.Wrap(cause, msg)}
}

// ByteAlignError reports a byte-level operation given a non-byte-aligned
// length or position.
type ByteAlignError struct{ err error }

func (e *ByteAlignError) Error() string { return e.err.Error() }
func (e *ByteAlignError) Unwrap() error { return e.err }

// NewByteAlign builds a ByteAlignError from a format string.
func NewByteAlign(format string, args ...interface{}) *ByteAlignError {
	return &ByteAlignError{err: errors.Errorf(format, args...)}
}

// ReadError reports a Reader attempting to read past the end of its BitSeq.
type ReadError struct{ err error }

func (e *ReadError) Error() string { return e.err.Error() }
func (e *ReadError) Unwrap() error { return e.err }

// NewRead builds a ReadError from a format string.
func NewRead(format string, args ...interface{}) *ReadError {
	return &ReadError{err: errors.Errorf(format, args...)}
}

// ParseError wraps one of the other kinds with the offending schema text
// and the position at the time of failure, when both are available.
// schema.Parse, its producer, passes a character offset into Text.
type ParseError struct {
	cause error
	Text  string
	Pos   int
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("at position %d: %s", e.Pos, e.cause.Error())
	}
	return fmt.Sprintf("at position %d, parsing %q: %s", e.Pos, e.Text, e.cause.Error())
}

func (e *ParseError) Unwrap() error { return e.cause }

// NewParse wraps cause with the text and position it failed at.
func NewParse(cause error, text string, pos int) *ParseError {
	return &ParseError{cause: cause, Text: text, Pos: pos}
}

// Cause unwraps err to its root cause, following both pkg/errors' Cause()
// and the Unwrap() of the kinds above until neither is available.
func Cause(err error) error {
	for {
		var next error
		switch e := err.(type) {
		case interface{ Cause() error }:
			next = e.Cause()
		case interface{ Unwrap() error }:
			next = e.Unwrap()
		}
		if next == nil {
			return err
		}
		err = next
	}
}
