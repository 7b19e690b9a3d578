// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used to classify failures of the
//              lexzig engine and its outer surfaces. Codes map to HTTP status
//              codes and categories for API responses and logs.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-18 v0.2.0: Replaced platform codes with analyzer codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Source analysis
	CodeLexical       Code = "LEXICAL_ERROR"
	CodeSyntax        Code = "SYNTAX_ERROR"
	CodeTypeMismatch  Code = "TYPE_MISMATCH"
	CodeInputTooLarge Code = "INPUT_TOO_LARGE"

	// Storage
	CodeStorageError Code = "STORAGE_ERROR"

	// Service and network
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeCanceled    Code = "CANCELED"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsDiagnostic reports whether the code describes a problem in analyzed source
func (c Code) IsDiagnostic() bool {
	switch c {
	case CodeLexical, CodeSyntax, CodeTypeMismatch:
		return true
	}
	return false
}

// HTTPStatus returns the appropriate HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidInput, CodeLexical, CodeSyntax, CodeTypeMismatch:
		return 400
	case CodeNotFound:
		return 404
	case CodeTimeout:
		return 408
	case CodeInputTooLarge:
		return 413
	case CodeCanceled:
		return 499
	case CodeUnavailable, CodeStorageError:
		return 503
	default:
		return 500
	}
}
