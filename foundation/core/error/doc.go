// Package error provides structured errors for lexzig.
//
// Package: error
// Title: Error Handling Framework
// Description: Structured error type carrying a code, severity, details and
//              operation, with wrapping that preserves the classification of
//              the wrapped error. Codes map to HTTP status codes so the API
//              layer can answer without inspecting messages.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-18 v0.2.0: Analyzer codes, errors.As based helpers
//
// Usage:
//
//	import mdwerror "github.com/msto63/lexzig/foundation/core/error"
//
//	err := mdwerror.Wrap(ioErr, "open history database").
//		WithCode(mdwerror.CodeStorageError).
//		WithOperation("store.Open")
//
//	if mdwerror.HasCode(err, mdwerror.CodeStorageError) {
//		// ...
//	}
package error
