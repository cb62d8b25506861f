package errors

import (
	"math"
	"regexp"
	"unicode"
)

// gateNameRegex matches valid operation names: lowercase alphanumerics,
// optionally ending in "dg" for adjoints (e.g. "sdg", "tdg").
var gateNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateGateName validates an operation name.
// Names are lowercase identifiers; uppercase or punctuation is rejected so
// that name-keyed tables (durations, matrices, basis sets) have one spelling
// per gate.
func ValidateGateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidParameter, "operation name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidParameter, "operation name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidParameter, "operation name contains control characters")
		}
	}

	if !gateNameRegex.MatchString(name) {
		return New(ErrCodeInvalidParameter, "invalid operation name: %q", name)
	}

	return nil
}

// registerNameRegex matches valid register names (OpenQASM identifier rules).
var registerNameRegex = regexp.MustCompile(`^[a-z][A-Za-z0-9_]*$`)

// ValidateRegisterName validates a quantum or classical register name.
func ValidateRegisterName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidParameter, "register name cannot be empty")
	}

	if !registerNameRegex.MatchString(name) {
		return New(ErrCodeInvalidParameter, "invalid register name: %q", name)
	}

	return nil
}

// ValidateAngle validates a numeric gate parameter.
// NaN and infinities are rejected; they silently poison matrix comparison and
// angle summation downstream.
func ValidateAngle(theta float64) error {
	if math.IsNaN(theta) {
		return New(ErrCodeMalformedParam, "gate parameter is NaN")
	}
	if math.IsInf(theta, 0) {
		return New(ErrCodeMalformedParam, "gate parameter is infinite")
	}
	return nil
}

// ValidateQubitIndex validates a physical qubit index against a device size.
func ValidateQubitIndex(index, size int) error {
	if index < 0 {
		return New(ErrCodeInvalidParameter, "qubit index cannot be negative: %d", index)
	}
	if index >= size {
		return New(ErrCodeUnknownQubit, "qubit index %d out of range for device with %d qubits", index, size)
	}
	return nil
}
