package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryScan       Category = "scan"
	CategoryNavigation Category = "navigation"
	CategoryCLI        Category = "cli"
)

// PagerouteError is a structured error with a code, the file involved and hints.
type PagerouteError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// File is the page file or config file the error refers to, if any.
	File string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *PagerouteError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.File != "" {
		msg += " (" + e.File + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *PagerouteError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a PagerouteError with the same code.
func (e *PagerouteError) Is(target error) bool {
	t, ok := target.(*PagerouteError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithFile records the file the error refers to.
func (e *PagerouteError) WithFile(file string) *PagerouteError {
	e.File = file
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *PagerouteError) WithSuggestion(s string) *PagerouteError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *PagerouteError) WithDetail(d string) *PagerouteError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *PagerouteError) Wrap(err error) *PagerouteError {
	e.Wrapped = err
	return e
}

// New creates a PagerouteError from a registered error code.
func New(code string) *PagerouteError {
	template, ok := registry[code]
	if !ok {
		return &PagerouteError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &PagerouteError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new PagerouteError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *PagerouteError {
	return &PagerouteError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a PagerouteError.
// Errors that already are PagerouteErrors are returned unchanged.
func FromError(err error, code string) *PagerouteError {
	if err == nil {
		return nil
	}
	var pe *PagerouteError
	if stderrors.As(err, &pe) {
		return pe
	}
	return New(code).Wrap(err)
}

// HasCode reports whether any error in err's chain carries code.
func HasCode(err error, code string) bool {
	return stderrors.Is(err, &PagerouteError{Code: code})
}
