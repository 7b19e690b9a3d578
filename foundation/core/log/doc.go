// Package log provides structured logging for lexzig.
//
// Package: log
// Title: Structured Logging
// Description: Leveled logger with contextual fields, JSON and text output,
//              timers, and severity-aware logging of structured errors. The
//              lexical and syntactic core never logs; the engine facade and
//              the outer layers do.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-18 v0.2.0: Trimmed to the features used by the analyzer services
//
// Usage:
//
//	import mdwlog "github.com/msto63/lexzig/foundation/core/log"
//
//	logger := mdwlog.New().
//		WithLevel(mdwlog.LevelDebug).
//		WithField("component", "lexzig-engine")
//
//	logger.Info("analysis finished", mdwlog.Fields{
//		"tokens":      42,
//		"diagnostics": 0,
//	})
//
//	timer := logger.StartTimer("parse")
//	// ... parse
//	timer.Stop()
package log
