// File: lexzig.go
// Title: LexZig Engine
// Description: High level entry point combining tokenizer and parser.
//              The engine enforces the input size limit, logs timings and
//              diagnostic counts and returns tokens, program and
//              diagnostics of one source text as a single Result. The
//              packages below it never log.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial engine implementation

package lexzig

import (
	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	mdwlog "github.com/msto63/lexzig/foundation/core/log"
	"github.com/msto63/lexzig/foundation/lexzig/ast"
	"github.com/msto63/lexzig/foundation/lexzig/diag"
	"github.com/msto63/lexzig/foundation/lexzig/lexer"
	"github.com/msto63/lexzig/foundation/lexzig/parser"
)

// DefaultMaxInputLength is the input limit used when none is configured
const DefaultMaxInputLength = 1 << 20

// Options configures the engine
type Options struct {
	// Logger for engine operations (optional, defaults to default logger)
	Logger *mdwlog.Logger

	// MaxInputLength limits the source size in bytes (default: 1 MiB)
	MaxInputLength int

	// MaxDepth limits block and expression nesting (default: parser.DefaultMaxDepth)
	MaxDepth int

	// DisableLiteralCheck turns off the arithmetic operand check
	DisableLiteralCheck bool
}

// Engine analyzes Zig source text. It is safe for concurrent use.
type Engine struct {
	parser  *parser.Parser
	logger  *mdwlog.Logger
	options Options
}

// Result holds everything known about one source text
type Result struct {
	Tokens      []lexer.Token `json:"tokens"`
	Program     *ast.Program  `json:"ast"`
	Diagnostics diag.List     `json:"diagnostics,omitempty"`
}

// OK reports whether the source produced no diagnostics
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Err returns the diagnostics as an error, or nil
func (r *Result) Err() error {
	return r.Diagnostics.Err()
}

// NewEngine creates an engine. Zero option values select the defaults.
func NewEngine(opts ...Options) (*Engine, error) {
	options := Options{
		Logger:         mdwlog.GetDefault(),
		MaxInputLength: DefaultMaxInputLength,
	}

	if len(opts) > 0 {
		provided := opts[0]
		if provided.Logger != nil {
			options.Logger = provided.Logger
		}
		if provided.MaxInputLength < 0 {
			return nil, mdwerror.Newf("invalid maximum input length: %d", provided.MaxInputLength).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("lexzig.NewEngine")
		}
		if provided.MaxInputLength > 0 {
			options.MaxInputLength = provided.MaxInputLength
		}
		options.MaxDepth = provided.MaxDepth
		options.DisableLiteralCheck = provided.DisableLiteralCheck
	}

	p, err := parser.New(parser.Options{
		MaxDepth:            options.MaxDepth,
		DisableLiteralCheck: options.DisableLiteralCheck,
	})
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to create parser").WithOperation("lexzig.NewEngine")
	}
	options.MaxDepth = p.Options().MaxDepth

	logger := options.Logger.WithField("component", "lexzig-engine")
	logger.Debug("Engine created", mdwlog.Fields{
		"max_input_length": options.MaxInputLength,
		"max_depth":        options.MaxDepth,
	})

	return &Engine{
		parser:  p,
		logger:  logger,
		options: options,
	}, nil
}

// Options returns the effective options
func (e *Engine) Options() Options {
	return e.options
}

// Tokenize returns the tokens and lexical diagnostics of source. The
// error is set only when the source is rejected before scanning.
func (e *Engine) Tokenize(source string) ([]lexer.Token, diag.List, error) {
	if err := e.checkSize(source, "lexzig.Tokenize"); err != nil {
		return nil, nil, err
	}

	timer := e.logger.StartTimer("tokenize").WithLevel(mdwlog.LevelTrace)
	tokens, diags := lexer.Tokenize(source)
	timer.WithField("tokens", len(tokens)).Stop()

	e.logDiagnostics("tokenize", diags)
	return tokens, diags, nil
}

// Parse returns the program and all diagnostics of source
func (e *Engine) Parse(source string) (*ast.Program, diag.List, error) {
	result, err := e.Analyze(source)
	if err != nil {
		return nil, nil, err
	}
	return result.Program, result.Diagnostics, nil
}

// Analyze tokenizes and parses source in one pass over the input
func (e *Engine) Analyze(source string) (*Result, error) {
	if err := e.checkSize(source, "lexzig.Analyze"); err != nil {
		return nil, err
	}

	timer := e.logger.StartTimer("analyze").WithField("bytes", len(source))

	tokens, diags := lexer.Tokenize(source)
	prog, parseDiags := e.parser.ParseTokens(tokens)
	diags = append(diags, parseDiags...)
	diags.Sort()

	if tokens == nil {
		tokens = []lexer.Token{}
	}

	timer.WithField("tokens", len(tokens)).
		WithField("statements", len(prog.Stmts)).
		WithField("diagnostics", len(diags)).
		Stop()

	e.logDiagnostics("analyze", diags)

	return &Result{
		Tokens:      tokens,
		Program:     prog,
		Diagnostics: diags,
	}, nil
}

func (e *Engine) checkSize(source, operation string) error {
	if len(source) <= e.options.MaxInputLength {
		return nil
	}

	err := mdwerror.Newf("input exceeds maximum length: %d > %d", len(source), e.options.MaxInputLength).
		WithCode(mdwerror.CodeInputTooLarge).
		WithOperation(operation).
		WithDetail("limit", e.options.MaxInputLength)
	e.logger.Warn("Input rejected", mdwlog.Fields{
		"operation": operation,
		"bytes":     len(source),
	})
	return err
}

func (e *Engine) logDiagnostics(operation string, diags diag.List) {
	if len(diags) == 0 || !e.logger.IsLevelEnabled(mdwlog.LevelDebug) {
		return
	}

	e.logger.Debug("Source has diagnostics", mdwlog.Fields{
		"operation":     operation,
		"lexical":       diags.Count(diag.Lexical),
		"syntax":        diags.Count(diag.Syntax),
		"type_mismatch": diags.Count(diag.TypeMismatch),
		"first":         diags[0].Error(),
	})
}
