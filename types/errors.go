/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the task core.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindFormat     ErrorKind = "format"
	KindStorage    ErrorKind = "storage"
	KindIO         ErrorKind = "io"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
)

// Error provides structured error information for core operations.
// errors.Is matches any *Error of the same kind, so callers can test
// against the sentinel values below.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Sentinels for errors.Is checks.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrFormat     = &Error{Kind: KindFormat}
	ErrStorage    = &Error{Kind: KindStorage}
	ErrIO         = &Error{Kind: KindIO}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
)

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err == nil:
		return string(e.Kind)
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Message == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError creates a new structured error.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// ValidationError is shorthand for NewError(KindValidation, ...).
func ValidationError(format string, args ...any) *Error {
	return NewError(KindValidation, fmt.Sprintf(format, args...), nil)
}

// NotFoundError reports a missing task id.
func NotFoundError(id string) *Error {
	return NewError(KindNotFound, fmt.Sprintf("task %q not found", id), nil)
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
