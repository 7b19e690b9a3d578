// File: doc.go
// Title: AST Package Documentation
// Description: Package documentation for the abstract syntax tree produced
//              by the parser
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial documentation

// Package ast defines the syntax tree for the supported Zig subset.
//
// The node set is closed. Stmt, Expr and SwitchMatchTarget are sealed with
// unexported marker methods, so a type switch over them is exhaustive for
// every tree the parser can build. Every Expr is also a Stmt because an
// expression followed by ';' is a valid statement.
//
// Trees are plain values: the parser builds them, nothing mutates them
// afterwards and they can be shared across goroutines. Two renderings are
// provided:
//
//   - JSON, where each node is an object with a "type" member holding the
//     variant name (see Kind.String) and one member per field
//   - a compact text form, Variant(field, ...), returned by Format
//
// Walk and Inspect traverse a tree depth-first. SelectBranch evaluates the
// matching rules of a switch over an integer value.
package ast
