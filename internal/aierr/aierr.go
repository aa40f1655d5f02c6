// Package aierr enumerates the typed error kinds callers can branch on
// by failure category without string matching, while every concrete
// error still wraps its underlying cause with %w.
package aierr

import (
	"errors"
	"fmt"
)

// Kind is one of the error categories defines.
type Kind string

const (
	KindLoad Kind = "load"
	KindAnalysis Kind = "analysis"
	KindBackendFallback Kind = "backend_fallback"
	KindElementType Kind = "element_type_mismatch"
	KindCancelled Kind = "cancelled"
	KindConfiguration Kind = "configuration"
)

// Error is a typed, wrapped error: Kind identifies the category for
// callers that branch on it, Unwrap exposes the underlying cause for
// errors.Is/As.
type Error struct {
	Kind Kind
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap builds an *Error of the given kind wrapping err with context msg.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Newf builds an *Error of the given kind with a formatted message and no
// wrapped cause.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
