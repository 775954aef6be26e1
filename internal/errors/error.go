package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryBuild  Category = "build"
	CategoryHooks  Category = "hooks"
	CategoryPatch  Category = "patch"
	CategoryConfig Category = "config"
	CategoryCLI    Category = "cli"
)

// HartError is a structured error with a registered code, detail and a hint.
type HartError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (build, hooks, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Path is the identity path of the node being built, if known.
	Path string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HartError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HartError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a HartError with the same code.
func (e *HartError) Is(target error) bool {
	t, ok := target.(*HartError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithDetail adds a detailed explanation to the error.
func (e *HartError) WithDetail(d string) *HartError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *HartError) WithDetailf(format string, args ...any) *HartError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithPath records the identity path where the error happened.
func (e *HartError) WithPath(p string) *HartError {
	e.Path = p
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *HartError) WithSuggestion(s string) *HartError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *HartError) Wrap(err error) *HartError {
	e.Wrapped = err
	return e
}

// New creates a HartError from a registered error code.
func New(code string) *HartError {
	template, ok := registry[code]
	if !ok {
		return &HartError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HartError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new HartError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *HartError {
	return &HartError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a HartError.
func FromError(err error, code string) *HartError {
	if err == nil {
		return nil
	}
	var he *HartError
	if stderrors.As(err, &he) {
		return he
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first HartError in err's chain, or "".
func Code(err error) string {
	var he *HartError
	if stderrors.As(err, &he) {
		return he.Code
	}
	return ""
}
