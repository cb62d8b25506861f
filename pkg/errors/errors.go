// Package errors provides structured error types for the qompile compiler.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the pass pipeline and CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention matching the compiler's
// error taxonomy:
//   - STRUCTURAL_*: circuit DAG invariant violations (unknown wires, cycles)
//   - CAPACITY_*: circuit exceeds device resources
//   - CONNECTIVITY_*: coupling graph reachability failures
//   - CONFIGURATION_*: invalid pass parameters or unmet pass requirements
//   - DATA_*: missing or malformed numeric data (durations, parameters)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownWire, "wire %s is not registered", w)
//	if errors.Is(err, errors.ErrCodeUnknownWire) {
//	    // Handle structural error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNoPath, origErr, "routing %s", gate)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the compiler's error taxonomy.
const (
	// Structural errors: circuit DAG invariant violations
	ErrCodeDuplicateWire     Code = "STRUCTURAL_DUPLICATE_WIRE"
	ErrCodeUnknownWire       Code = "STRUCTURAL_UNKNOWN_WIRE"
	ErrCodeDuplicateArgs     Code = "STRUCTURAL_DUPLICATE_ARGS"
	ErrCodeArityMismatch     Code = "STRUCTURAL_ARITY_MISMATCH"
	ErrCodeCycle             Code = "STRUCTURAL_CYCLE"
	ErrCodeNotOpNode         Code = "STRUCTURAL_NOT_OP_NODE"
	ErrCodeUnknownNode       Code = "STRUCTURAL_UNKNOWN_NODE"
	ErrCodeUnknownRegister   Code = "STRUCTURAL_UNKNOWN_REGISTER"
	ErrCodeWireCountMismatch Code = "STRUCTURAL_WIRE_COUNT_MISMATCH"
	ErrCodeConditionConflict Code = "STRUCTURAL_CONDITION_CONFLICT"

	// Capacity errors: circuit wider than the device
	ErrCodeCapacity Code = "CAPACITY_EXCEEDED"

	// Connectivity errors: no path in the coupling graph
	ErrCodeNoPath       Code = "CONNECTIVITY_NO_PATH"
	ErrCodeUnknownQubit Code = "CONNECTIVITY_UNKNOWN_QUBIT"

	// Configuration errors: invalid pass setup or internal consistency failures
	ErrCodeUnmetRequirement Code = "CONFIGURATION_UNMET_REQUIREMENT"
	ErrCodeInvalidParameter Code = "CONFIGURATION_INVALID_PARAMETER"
	ErrCodeInternal         Code = "CONFIGURATION_INTERNAL"

	// Data errors: missing durations, malformed numeric parameters
	ErrCodeMissingDuration Code = "DATA_MISSING_DURATION"
	ErrCodeMalformedParam  Code = "DATA_MALFORMED_PARAM"
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

// IsStructural reports whether err carries any STRUCTURAL_* code.
func IsStructural(err error) bool { return hasFamily(err, "STRUCTURAL_") }

// IsConfiguration reports whether err carries any CONFIGURATION_* code.
func IsConfiguration(err error) bool { return hasFamily(err, "CONFIGURATION_") }

// IsData reports whether err carries any DATA_* code.
func IsData(err error) bool { return hasFamily(err, "DATA_") }

func hasFamily(err error, prefix string) bool {
	return strings.HasPrefix(string(GetCode(err)), prefix)
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
