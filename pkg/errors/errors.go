// Package errors provides structured error types for the floorplan application.
//
// Every engine, catalog and store failure carries a machine-readable [Code]
// so that callers (the CLI, the terminal editor) can decide how to surface it
// without string matching:
//   - placement failures: OUT_OF_BOUNDS, CELL_OCCUPIED, EMPTY_CELL
//   - selection failures: NO_SELECTION, INVALID_SELECTION_COUNT
//   - shape failures: SHAPE_MISMATCH, UNKNOWN_SHAPE
//   - input failures: MALFORMED_INPUT, MISSING_CONFIG
//   - backend failures: STORE, INTERNAL_ERROR
//
// # Usage
//
//	err := errors.New(errors.ErrCodeCellOccupied, "cell %s is occupied", cell)
//	if errors.Is(err, errors.ErrCodeCellOccupied) {
//	    // Report and carry on
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMissingConfig, origErr, "read catalog %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the floorplan error taxonomy.
const (
	// Placement errors
	ErrCodeOutOfBounds  Code = "OUT_OF_BOUNDS"
	ErrCodeCellOccupied Code = "CELL_OCCUPIED"
	ErrCodeEmptyCell    Code = "EMPTY_CELL"

	// Selection errors
	ErrCodeNoSelection           Code = "NO_SELECTION"
	ErrCodeInvalidSelectionCount Code = "INVALID_SELECTION_COUNT"

	// Shape errors
	ErrCodeShapeMismatch Code = "SHAPE_MISMATCH"
	ErrCodeUnknownShape  Code = "UNKNOWN_SHAPE"

	// Input errors
	ErrCodeMalformedInput Code = "MALFORMED_INPUT"
	ErrCodeMissingConfig  Code = "MISSING_CONFIG"

	// Backend errors
	ErrCodeStore    Code = "STORE"
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

// Warning reports whether err is a recoverable, operation-aborting condition
// that should be shown to the user and otherwise ignored.
// Configuration, store and internal failures are not warnings.
func Warning(err error) bool {
	switch GetCode(err) {
	case "", ErrCodeMissingConfig, ErrCodeStore, ErrCodeInternal:
		return false
	}
	return true
}
