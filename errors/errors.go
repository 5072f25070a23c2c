// Package errors provides the domain error kinds of the romanization pipeline.
//
// Callers match kinds with errors.Is against the sentinels:
//
//	if errors.Is(err, errors.ErrAnalyzerUnavailable) {
//	    logger.Warn("japanese analyzer not ready", "error", err)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code represents a machine-readable error code.
type Code string

const (
	CodeInvalidInput         Code = "INVALID_INPUT"
	CodeAnalyzerUnavailable  Code = "ANALYZER_UNAVAILABLE"
	CodeAnalyzerCallFailed   Code = "ANALYZER_CALL_FAILED"
	CodePresentationNotFound Code = "PRESENTATION_NOT_FOUND"
	CodeStalePass            Code = "STALE_PASS"
	CodeValidation           Code = "VALIDATION"
)

// Error is a domain error with a code, message, and optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrInvalidInput         = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrAnalyzerUnavailable  = &Error{Code: CodeAnalyzerUnavailable, Message: "japanese analyzer unavailable"}
	ErrAnalyzerCallFailed   = &Error{Code: CodeAnalyzerCallFailed, Message: "japanese analyzer call failed"}
	ErrPresentationNotFound = &Error{Code: CodePresentationNotFound, Message: "lyrics container not found"}
	ErrStalePass            = &Error{Code: CodeStalePass, Message: "processing pass superseded"}
	ErrValidation           = &Error{Code: CodeValidation, Message: "validation error"}
)

// InvalidInput creates an invalid input error.
func InvalidInput(msg string) *Error {
	return &Error{Code: CodeInvalidInput, Message: msg}
}

// AnalyzerUnavailable creates an analyzer unavailable error wrapping cause (may be nil).
func AnalyzerUnavailable(cause error) *Error {
	return ErrAnalyzerUnavailable.WithCause(cause)
}

// AnalyzerCallFailed creates an analyzer call error wrapping cause.
func AnalyzerCallFailed(cause error) *Error {
	return ErrAnalyzerCallFailed.WithCause(cause)
}

// PresentationNotFound creates a presentation error with a custom message.
func PresentationNotFound(msg string) *Error {
	return &Error{Code: CodePresentationNotFound, Message: msg}
}

// StalePass creates a stale pass error naming the superseded and current tracks.
func StalePass(passTrack, currentTrack string) *Error {
	return &Error{
		Code:    CodeStalePass,
		Message: fmt.Sprintf("pass for track %q superseded by track %q", passTrack, currentTrack),
	}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of err, or the empty code when err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
