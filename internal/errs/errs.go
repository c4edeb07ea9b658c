// Package errs defines the error kinds drm reports to the user.
// Every fallible operation returns an *Error; only cmd/drm turns one into
// a message and an exit status.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the coarse error category printed in the failure line.
type Kind string

const (
	KindUnknown  Kind = "UnknownError"
	KindArgument Kind = "ArgumentError"
	KindParse    Kind = "ParseError"
	KindPath     Kind = "PathError"
	KindConfig   Kind = "ConfigError"
	KindIO       Kind = "IOError"
)

// Reason narrows a ParseError.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonMalformed      Reason = "Malformed"
	ReasonInvalidInteger Reason = "InvalidInteger"
	ReasonUnknownUnit    Reason = "UnknownUnit"
)

// Sentinels for errors.Is.
var (
	ErrArgument       = &Error{Kind: KindArgument}
	ErrParse          = &Error{Kind: KindParse}
	ErrMalformed      = &Error{Kind: KindParse, Reason: ReasonMalformed}
	ErrInvalidInteger = &Error{Kind: KindParse, Reason: ReasonInvalidInteger}
	ErrUnknownUnit    = &Error{Kind: KindParse, Reason: ReasonUnknownUnit}
	ErrPath           = &Error{Kind: KindPath}
	ErrConfig         = &Error{Kind: KindConfig}
	ErrIO             = &Error{Kind: KindIO}
)

// Error is a kind-tagged error with a human readable detail.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches on Kind, and on Reason when the target carries one.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Reason == ReasonNone || e.Reason == t.Reason
}

// Argument reports a missing or invalid command-line argument.
func Argument(format string, args ...any) *Error {
	return &Error{Kind: KindArgument, Message: fmt.Sprintf(format, args...)}
}

// Parse reports a rule string that could not be parsed.
func Parse(reason Reason, format string, args ...any) *Error {
	return &Error{Kind: KindParse, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Path reports a target directory that does not exist or is not usable.
func Path(format string, args ...any) *Error {
	return &Error{Kind: KindPath, Message: fmt.Sprintf(format, args...)}
}

// Config reports an invalid job file.
func Config(format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// IO wraps a filesystem failure while listing or deleting.
func IO(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindIO, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// Wrap prefixes err with context while keeping its kind. Errors that are
// not an *Error become KindUnknown.
func Wrap(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	var e *Error
	if errors.As(err, &e) {
		return &Error{Kind: e.Kind, Reason: e.Reason, Message: msg + ": " + e.Message, Wrapped: e.Wrapped}
	}
	return &Error{Kind: KindUnknown, Message: msg, Wrapped: err}
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Report renders the single failure line shown before exiting.
func Report(err error) string {
	kind := KindOf(err)
	return fmt.Sprintf("Program execution failed, err type %s, detailed reason: '%s'. Run --help for help.", kind, err.Error())
}
