// Package clierr defines the error taxonomy shared by every package in
// cli-kit. All errors the engine returns are *Error values so that callers
// can branch on Kind with errors.Is/errors.As instead of string matching.
package clierr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies a class of failure from the cli-kit error taxonomy.
type Kind string

// The error kinds the core engine can produce.
const (
	InvalidArgument         Kind = "INVALID_ARGUMENT"
	InvalidOption           Kind = "INVALID_OPTION"
	InvalidOptionFormat     Kind = "INVALID_OPTION_FORMAT"
	InvalidAlias            Kind = "INVALID_ALIAS"
	InvalidDataType         Kind = "INVALID_DATA_TYPE"
	InvalidValue            Kind = "INVALID_VALUE"
	InvalidNumber           Kind = "INVALID_NUMBER"
	InvalidDate             Kind = "INVALID_DATE"
	InvalidJSON             Kind = "INVALID_JSON"
	NotYesNo                Kind = "NOT_YES_NO"
	RangeError              Kind = "RANGE_ERROR"
	MissingRequiredArgument Kind = "MISSING_REQUIRED_ARGUMENT"
	MissingRequiredOption   Kind = "MISSING_REQUIRED_OPTION"
	AlreadyExists           Kind = "ALREADY_EXISTS"
	Conflict                Kind = "CONFLICT"
	DefaultCommandNotFound  Kind = "DEFAULT_COMMAND_NOT_FOUND"
	FileNotFound            Kind = "FILE_NOT_FOUND"
	TemplateNotFound        Kind = "TEMPLATE_NOT_FOUND"
	InvalidExtension        Kind = "INVALID_EXTENSION"
	InvalidPackageJSON      Kind = "INVALID_PACKAGE_JSON"
	NoExecutable            Kind = "NO_EXECUTABLE"
	InvalidNodeJS           Kind = "INVALID_NODE_JS"
	NotAnOption             Kind = "NOT_AN_OPTION"
)

// Error is the concrete error type returned by every cli-kit package.
//
// Meta carries structured detail (the option/command/path at fault) for
// callers that want to render their own diagnostics instead of Error().
type Error struct {
	Kind    Kind
	Message string
	Meta    map[string]any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error of the same Kind, so callers can
// write errors.Is(err, clierr.New(clierr.AlreadyExists, "")) style checks;
// Has makes the same check given just a Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New returns a new *Error of the given Kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a new *Error of the given Kind that wraps cause, capturing
// its stack so diagnostics for deep failures (extension loads especially)
// keep the causal chain.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.WithStack(cause),
	}
}

// WithMeta attaches structured metadata to e and returns e for chaining.
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any, 1)
	}
	e.Meta[key] = value
	return e
}

// KindOf returns the Kind of err if it is (or wraps) a *Error, and false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Has reports whether err is, or wraps, a *Error of the given Kind.
func Has(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
