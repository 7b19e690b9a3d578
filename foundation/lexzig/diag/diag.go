// File: diag.go
// Title: Source Diagnostics
// Description: Typed diagnostics produced by the tokenizer and the parser.
//              A diagnostic carries its kind, a message, an optional 1-based
//              source line and the offending token or character. Diagnostics
//              are plain values; the core collects them and never prints.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package diag

import (
	"fmt"
	"sort"
	"strings"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
)

// Kind classifies a diagnostic
type Kind int

const (
	// Lexical marks an unrecognized character or malformed literal
	Lexical Kind = iota
	// Syntax marks a token the grammar cannot accept at that point
	Syntax
	// TypeMismatch marks literal operands of different kinds in arithmetic
	TypeMismatch
)

// String returns the name of the diagnostic kind
func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case TypeMismatch:
		return "type"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Code maps the kind onto the structured error codes
func (k Kind) Code() mdwerror.Code {
	switch k {
	case Lexical:
		return mdwerror.CodeLexical
	case TypeMismatch:
		return mdwerror.CodeTypeMismatch
	default:
		return mdwerror.CodeSyntax
	}
}

// Diagnostic is a single problem found in source text
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`  // 1-based, 0 when unknown
	Token   string `json:"token,omitempty"` // token kind name or offending character
}

// Error formats the diagnostic as "at line N: message", or just the
// message when the line is unknown.
func (d *Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("at line %d: %s", d.Line, d.Message)
	}
	return d.Message
}

// AsError converts the diagnostic to a structured error for the outer layers
func (d *Diagnostic) AsError() *mdwerror.Error {
	err := mdwerror.New(d.Error()).WithCode(d.Kind.Code())
	if d.Line > 0 {
		err.WithDetail("line", d.Line)
	}
	if d.Token != "" {
		err.WithDetail("token", d.Token)
	}
	return err
}

// NewIllegalCharacter reports a character no token starts with
func NewIllegalCharacter(ch rune, line int) *Diagnostic {
	return &Diagnostic{
		Kind:    Lexical,
		Message: fmt.Sprintf("illegal character %q", ch),
		Line:    line,
		Token:   string(ch),
	}
}

// NewIntegerRange reports a decimal literal that does not fit into int64
func NewIntegerRange(literal string, line int) *Diagnostic {
	return &Diagnostic{
		Kind:    Lexical,
		Message: fmt.Sprintf("integer literal %s out of range", literal),
		Line:    line,
		Token:   literal,
	}
}

// NewUnexpectedToken reports a token the parser cannot accept
func NewUnexpectedToken(kind string, line int) *Diagnostic {
	return &Diagnostic{
		Kind:    Syntax,
		Message: "unexpected token " + kind,
		Line:    line,
		Token:   kind,
	}
}

// NewUnexpectedEOF reports a statement cut short by the end of input
func NewUnexpectedEOF(line int) *Diagnostic {
	return &Diagnostic{
		Kind:    Syntax,
		Message: "unexpected end of input, maybe a ';' is missing",
		Line:    line,
	}
}

// NewNestingTooDeep reports source nested beyond the parser's depth limit
func NewNestingTooDeep(limit, line int) *Diagnostic {
	return &Diagnostic{
		Kind:    Syntax,
		Message: fmt.Sprintf("nesting exceeds maximum depth of %d", limit),
		Line:    line,
	}
}

// NewTypeMismatch reports arithmetic between literals of different kinds
func NewTypeMismatch(op, expected, lhs, rhs string, line int) *Diagnostic {
	return &Diagnostic{
		Kind: TypeMismatch,
		Message: fmt.Sprintf("invalid types for binary operator '%s', expected %s and %s, but got %s and %s",
			op, expected, expected, lhs, rhs),
		Line:  line,
		Token: op,
	}
}

// List accumulates diagnostics in the order they were found
type List []*Diagnostic

// Add appends a diagnostic
func (l *List) Add(d *Diagnostic) {
	*l = append(*l, d)
}

// HasErrors reports whether any diagnostic was recorded
func (l List) HasErrors() bool {
	return len(l) > 0
}

// Count returns the number of diagnostics of kind k
func (l List) Count(k Kind) int {
	n := 0
	for _, d := range l {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by line, keeping discovery order within a line
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Line < l[j].Line
	})
}

// Error joins all diagnostics with "; "
func (l List) Error() string {
	parts := make([]string, len(l))
	for i, d := range l {
		parts[i] = d.Error()
	}
	return strings.Join(parts, "; ")
}

// Err returns the list as an error, or nil when it is empty
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// AsError converts the list to a structured error carrying the code of
// the first diagnostic and the total count
func (l List) AsError() *mdwerror.Error {
	if len(l) == 0 {
		return nil
	}
	return mdwerror.New(l.Error()).
		WithCode(l[0].Kind.Code()).
		WithDetail("diagnostics", len(l))
}
