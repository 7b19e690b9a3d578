// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels used to pick the log level of an error.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-18 v0.2.0: Code mapping follows the analyzer codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow covers problems caused by client input
	SeverityLow Severity = iota
	// SeverityMedium covers recoverable service problems
	SeverityMedium
	// SeverityHigh covers failed dependencies such as storage
	SeverityHigh
	// SeverityCritical makes the service unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeLexical, CodeSyntax, CodeTypeMismatch, CodeInvalidInput,
		CodeInputTooLarge, CodeNotFound, CodeCanceled:
		return SeverityLow
	case CodeStorageError, CodeConfigError, CodeInvalidConfig:
		return SeverityHigh
	case CodeUnavailable:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}
