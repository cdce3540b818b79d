// Package errors provides structured error types for the narrative editor.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the editor session, the codec and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages for editor notifications
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - DANGLING_*, DUPLICATE_*: Data integrity faults in persisted records
//   - STORAGE, INTERNAL_*: Backend and unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidName, "invalid record name: %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidName) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "failed to read %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"

	// Save guards
	ErrCodeEmptyGraph  Code = "EMPTY_GRAPH"
	ErrCodeNoEntryNode Code = "NO_ENTRY_NODE"

	// Resource not found errors
	ErrCodeRecordNotFound Code = "RECORD_NOT_FOUND"
	ErrCodeNodeNotFound   Code = "NODE_NOT_FOUND"
	ErrCodePortNotFound   Code = "PORT_NOT_FOUND"

	// Record integrity errors
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE"
	ErrCodeDuplicateLabel    Code = "DUPLICATE_LABEL"
	ErrCodeDuplicateNode     Code = "DUPLICATE_NODE"

	// Backend and internal errors
	ErrCodeStorage  Code = "STORAGE"
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
// Only the outermost *Error is consulted, so a STORAGE error wrapping a
// RECORD_NOT_FOUND error reports STORAGE.
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

// Title returns a short dialog title for the error's code, as shown by
// editor notifications. Unknown codes map to "Error".
func Title(err error) string {
	switch GetCode(err) {
	case ErrCodeInvalidName:
		return "Invalid File name"
	case ErrCodeRecordNotFound:
		return "File Not Found"
	case ErrCodeEmptyGraph:
		return "Nothing to Save"
	case ErrCodeDanglingReference, ErrCodeDuplicateLabel, ErrCodeDuplicateNode:
		return "Corrupt Narrative Data"
	case ErrCodeNoEntryNode:
		return "Missing Entry Point"
	case ErrCodeStorage:
		return "Storage Error"
	default:
		return "Error"
	}
}
