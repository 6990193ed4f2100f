// Package errors provides the const string error idiom used for sentinel
// errors across the linter, plus thin wrappers over the standard errors package.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins a sentinel message and its cause.
const Separator = " -- "

// Error is a string based error type allowing errors to be declared as constants.
type Error string

func (s Error) Error() string {
	return string(s)
}

// Is reports whether target carries the same message, either directly or as
// the head of a wrapped error.
func (s Error) Is(target error) bool {
	if target == nil {
		return false
	}
	msg := target.Error()
	return msg == string(s) || strings.HasPrefix(msg, string(s)+Separator)
}

// Wrap attaches err as the cause of s.
func (s Error) Wrap(err error) error {
	return wrappedError{msg: string(s), cause: err}
}

// Wrapf attaches a formatted cause to s.
func (s Error) Wrapf(format string, args ...any) error {
	return wrappedError{msg: string(s), cause: fmt.Errorf(format, args...)}
}

type wrappedError struct {
	msg   string
	cause error
}

func (w wrappedError) Error() string {
	if w.cause == nil {
		return w.msg
	}
	return w.msg + Separator + w.cause.Error()
}

func (w wrappedError) Is(target error) bool {
	return Error(w.msg).Is(target)
}

func (w wrappedError) Unwrap() error {
	return w.cause
}

// Is checks if err is equivalent to target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns a new error with the specified message.
func New(message string) error {
	return errors.New(message)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
