// Package errors provides structured error types for the Pilaster engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly failure reasons in batch reports
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the batch failure taxonomy: run-level failures
// (INVALID_INPUT, USER_CANCELLED, NO_RECTANGLES) abort before any
// mutation; per-candidate failures (TEMPLATE_RESOLUTION, LEVEL_RESOLUTION,
// ACTIVATION_FAILED, CREATION_FAILED) are recorded and never abort the run.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeTemplateResolution, "no symbol for %s", key)
//	if errors.Is(err, errors.ErrCodeTemplateResolution) {
//	    // record and continue with the next candidate
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCreationFailed, hostErr, "create column at %s", center)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Run-level errors: abort before any mutation scope opens.
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeUserCancelled Code = "USER_CANCELLED"
	ErrCodeNoRectangles  Code = "NO_RECTANGLES"

	// Per-candidate errors: recorded, never fatal to the run.
	ErrCodeTemplateResolution Code = "TEMPLATE_RESOLUTION"
	ErrCodeLevelResolution    Code = "LEVEL_RESOLUTION"
	ErrCodeActivationFailed   Code = "ACTIVATION_FAILED"
	ErrCodeCreationFailed     Code = "CREATION_FAILED"

	// Host protocol errors
	ErrCodeNestedScope  Code = "NESTED_SCOPE"
	ErrCodeScopeClosed  Code = "SCOPE_CLOSED"
	ErrCodeNotSupported Code = "NOT_SUPPORTED"

	// IO errors (model snapshots, settings files)
	ErrCodeSnapshotIO Code = "SNAPSHOT_IO"
	ErrCodeSettingsIO Code = "SETTINGS_IO"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
