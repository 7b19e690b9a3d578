// File: parser.go
// Title: Zig Subset Recursive Descent Parser
// Description: Entry points of the parsing phase. A Parser holds only
//              immutable options and can be shared between goroutines;
//              every Parse call creates its own cursor state and
//              diagnostics accumulator. Syntax errors are recovered by
//              skipping to the next statement boundary so one pass reports
//              every independent problem together with the partial program.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial parser implementation

package parser

import (
	"errors"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	"github.com/msto63/lexzig/foundation/lexzig/ast"
	"github.com/msto63/lexzig/foundation/lexzig/diag"
	"github.com/msto63/lexzig/foundation/lexzig/lexer"
)

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero
const DefaultMaxDepth = 256

// Options configures parser behavior
type Options struct {
	// MaxDepth bounds how deeply blocks and expressions may nest
	MaxDepth int

	// DisableLiteralCheck turns off the operand check on + - * /
	DisableLiteralCheck bool
}

// Parser turns source text into a Program. It is safe for concurrent use.
type Parser struct {
	options Options
}

// New creates a parser with the given options
func New(opts Options) (*Parser, error) {
	if opts.MaxDepth < 0 {
		return nil, mdwerror.Newf("invalid maximum depth: %d", opts.MaxDepth).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("parser.New")
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Parser{options: opts}, nil
}

var defaultParser = &Parser{options: Options{MaxDepth: DefaultMaxDepth}}

// Parse parses source with the default options
func Parse(source string) (*ast.Program, diag.List) {
	return defaultParser.Parse(source)
}

// Options returns the effective options
func (p *Parser) Options() Options {
	return p.options
}

// Parse tokenizes and parses source. The returned program holds every
// statement that parsed cleanly; the diagnostics, lexical ones included,
// are ordered by line.
func (p *Parser) Parse(source string) (*ast.Program, diag.List) {
	tokens, diags := lexer.Tokenize(source)
	prog, parseDiags := p.ParseTokens(tokens)

	diags = append(diags, parseDiags...)
	diags.Sort()
	return prog, diags
}

// ParseTokens parses an already tokenized source. The slice is not
// modified.
func (p *Parser) ParseTokens(tokens []lexer.Token) (*ast.Program, diag.List) {
	st := newState(tokens, p.options)
	prog := &ast.Program{Stmts: st.statements(false)}
	return prog, st.diags
}

// parser is the per-call cursor state
type parser struct {
	tokens  []lexer.Token // always ends with EOF
	current int
	diags   diag.List
	options Options

	depth       int
	eofReported bool
}

func newState(tokens []lexer.Token, opts Options) *parser {
	line := 1
	if len(tokens) > 0 {
		line = tokens[len(tokens)-1].Line
	}

	toks := make([]lexer.Token, len(tokens), len(tokens)+1)
	copy(toks, tokens)
	toks = append(toks, lexer.Token{Kind: lexer.EOF, Line: line})

	return &parser{tokens: toks, options: opts}
}

// statements parses statements until EOF, or until the closing '}' when
// inBlock is set. A failed statement is reported and skipped.
func (p *parser) statements(inBlock bool) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.atEnd() {
		if p.check(lexer.RCurly) {
			if inBlock {
				break
			}
			p.report(p.unexpected())
			p.advance()
			continue
		}

		start := p.current
		stmt, err := p.statement()
		if err != nil {
			p.report(err)
			p.synchronize(start, inBlock)
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

// synchronize discards tokens until a ';' outside of any brace opened by
// the failed statement has been consumed. Inside a block it stops in front
// of the '}' that closes the block.
func (p *parser) synchronize(start int, inBlock bool) {
	depth := 0
	for _, tok := range p.tokens[start:p.current] {
		switch tok.Kind {
		case lexer.LCurly:
			depth++
		case lexer.RCurly:
			if depth > 0 {
				depth--
			}
		}
	}

	for !p.atEnd() {
		switch p.peek().Kind {
		case lexer.Semicolon:
			p.advance()
			if depth == 0 {
				return
			}
		case lexer.LCurly:
			depth++
			p.advance()
		case lexer.RCurly:
			if depth == 0 && inBlock {
				return
			}
			if depth > 0 {
				depth--
			}
			p.advance()
		default:
			p.advance()
		}
	}
}

// report records err as a diagnostic. Once end of input produced one,
// further errors at end of input are cascades and dropped.
func (p *parser) report(err error) {
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		d = &diag.Diagnostic{Kind: diag.Syntax, Message: err.Error(), Line: p.peek().Line}
	}

	if p.atEnd() {
		if p.eofReported {
			return
		}
		p.eofReported = true
	}
	p.diags.Add(d)
}

// unexpected builds the diagnostic for the current token
func (p *parser) unexpected() error {
	tok := p.peek()
	if tok.Kind == lexer.EOF {
		return diag.NewUnexpectedEOF(tok.Line)
	}
	return diag.NewUnexpectedToken(tok.Kind.String(), tok.Line)
}

// enter guards recursion; every successful enter is paired with leave
func (p *parser) enter() error {
	p.depth++
	if p.depth > p.options.MaxDepth {
		p.depth--
		return diag.NewNestingTooDeep(p.options.MaxDepth, p.peek().Line)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) peek() lexer.Token {
	return p.tokens[p.current]
}

// peekAt looks n tokens ahead, saturating at EOF
func (p *parser) peekAt(n int) lexer.Token {
	i := p.current + n
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}
	return p.tokens[i]
}

func (p *parser) atEnd() bool {
	return p.peek().Kind == lexer.EOF
}

func (p *parser) advance() lexer.Token {
	tok := p.peek()
	if !p.atEnd() {
		p.current++
	}
	return tok
}

func (p *parser) check(kind lexer.Kind) bool {
	return p.peek().Kind == kind
}

// match consumes the current token if it has one of the given kinds
func (p *parser) match(kinds ...lexer.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) expect(kind lexer.Kind) (lexer.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.unexpected()
}
