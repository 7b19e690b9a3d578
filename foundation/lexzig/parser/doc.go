// Package parser implements a recursive descent parser for the supported
// Zig subset.
//
// The grammar covers variable and function declarations, return, for and
// while loops and expression statements. Expressions include arithmetic,
// comparison, if and switch expressions, struct and enum declarations,
// struct and array literals, field access, calls, try, address-of and
// assignment. Type annotations are validated syntactically and dropped.
//
// Usage:
//
//	prog, diags := parser.Parse(source)
//	if diags.HasErrors() {
//		for _, d := range diags {
//			fmt.Fprintf(os.Stderr, "ERROR: %s\n", d)
//		}
//	}
//
// Parsing never stops at the first problem. After a syntax error the
// parser discards tokens up to the next ';' that belongs to the failed
// statement and continues, so the returned Program contains every
// statement that parsed cleanly and the diagnostics describe every
// independent problem. Callers that need a valid program treat any
// diagnostic as fatal.
//
// The only semantic check is on + - * /: arithmetic between literals of
// different kinds, such as 1 + "a", is reported as a type mismatch.
//
// A Parser is immutable after New and may be used from many goroutines.
// Parse and ParseTokens are deterministic functions of their input.
package parser
