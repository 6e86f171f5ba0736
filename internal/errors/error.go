package errors

import (
	"fmt"
	"runtime"
)

// Category represents the type of diagnostic.
type Category string

const (
	CategoryRuntime   Category = "runtime"
	CategoryScheduler Category = "scheduler"
	CategoryDevtools  Category = "devtools"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// Location represents a source code location.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// CodedError is a structured diagnostic with a stable code, a suggestion and
// an optional caller location.
type CodedError struct {
	// Code is a unique identifier (e.g., "R001").
	Code string

	// Category is the diagnostic type (runtime, config, etc.).
	Category Category

	// Message is a short description.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Location is where the offending call was made, when known.
	Location *Location

	// Suggestion is a hint on how to fix the problem.
	Suggestion string

	// DocURL links to documentation about this code.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface. A detail that differs from the
// registered template and the wrapped cause are appended.
func (e *CodedError) Error() string {
	s := e.Message
	if e.Code != "" {
		s = e.Code + ": " + s
	}
	if e.Detail != "" {
		if t, ok := registry[e.Code]; !ok || t.Detail != e.Detail {
			s += " (" + e.Detail + ")"
		}
	}
	if e.Wrapped != nil {
		s += ": " + e.Wrapped.Error()
	}
	return s
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *CodedError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same code.
// Diagnostics created from the same template compare equal under errors.Is.
func (e *CodedError) Is(target error) bool {
	t, ok := target.(*CodedError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithCaller records the location of the caller skip frames above WithCaller.
func (e *CodedError) WithCaller(skip int) *CodedError {
	if _, file, line, ok := runtime.Caller(skip + 1); ok {
		e.Location = &Location{File: file, Line: line}
	}
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *CodedError) WithSuggestion(s string) *CodedError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *CodedError) WithDetail(d string) *CodedError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *CodedError) Wrap(err error) *CodedError {
	e.Wrapped = err
	return e
}

// New creates a CodedError from a registered code.
func New(code string) *CodedError {
	template, ok := registry[code]
	if !ok {
		return &CodedError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &CodedError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a CodedError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *CodedError {
	return &CodedError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a CodedError.
func FromError(err error, code string) *CodedError {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*CodedError); ok {
		return ce
	}
	return New(code).Wrap(err)
}
