// File: doc.go
// Title: LexZig Package Documentation
// Description: Package documentation for the LexZig engine
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial documentation

// Package lexzig is the front end for a subset of the Zig language.
//
// The work is split over four packages:
//
//	diag    diagnostics shared by all phases
//	lexer   token kinds, keyword table and the scanner
//	ast     the syntax tree with its JSON and text renderings
//	parser  recursive descent parser with error recovery
//
// Engine ties them together for the command line, the REPL and the
// servers:
//
//	engine, err := lexzig.NewEngine(lexzig.Options{Logger: logger})
//	if err != nil {
//		return err
//	}
//
//	result, err := engine.Analyze(source)
//	if err != nil {
//		return err // input rejected, e.g. too large
//	}
//	for _, d := range result.Diagnostics {
//		fmt.Fprintf(os.Stderr, "ERROR: %s\n", d)
//	}
//
// Problems in the source are never returned as the error value. They are
// diagnostics: the result still carries the tokens and the partial program
// so callers decide how strict to be.
package lexzig
