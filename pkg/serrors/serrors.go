// Package serrors attaches a Kind and a client-safe message to errors while
// keeping the original cause reachable through errors.Is and errors.As.
package serrors

import (
	"errors"
	"fmt"
)

// Error pairs a Kind with an optional cause and message.
//
// errors.Is and errors.As succeed for the kind as well as for anything in the
// cause chain. The message is meant for clients; the cause is meant for logs.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With returns an error of kind k with a formatted message and no cause.
func With(k Kind, format string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of kind k around cause, with a formatted message.
func Wrap(k Kind, cause error, format string, args ...any) *Error {
	return &Error{kind: k, err: cause, msg: fmt.Sprintf(format, args...)}
}

// KindOnly returns a bare error of kind k.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	}

	return "unknown error"
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}

	return (e.kind != nil && errors.Is(e.kind, target)) ||
		(e.err != nil && errors.Is(e.err, target))
}

func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}

	return (e.kind != nil && errors.As(e.kind, target)) ||
		(e.err != nil && errors.As(e.err, target))
}

func (e *Error) Kind() Kind { return e.kind }

// Message is the text passed to With or Wrap.
func (e *Error) Message() string { return e.msg }

func (e *Error) Cause() error { return e.err }
