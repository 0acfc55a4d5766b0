// Package apierr defines the typed error taxonomy shared by every core
// operation: NotFound, Validation, Conflict, NoDraftForToday, Parse, and IO.
// Business gates (finalize's "no draft", idempotent re-finalize) are
// ordinary values, not errors; everything else that can go wrong is one of
// these kinds so a transport layer can map it to the right status/exit code
// without string-matching messages.
package apierr

import (
	"errors"
	"fmt"
)

// Kind is one of the error categories from the error-handling design.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindValidation       Kind = "validation"
	KindConflict         Kind = "conflict"
	KindNoDraftForToday  Kind = "no_draft_for_today"
	KindParse            Kind = "parse"
	KindIO               Kind = "io"
)

// Error wraps an underlying cause with a Kind, staying compatible with
// errors.Is/errors.As via Unwrap.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf constructs an *Error of the given kind from a formatted message.
func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
