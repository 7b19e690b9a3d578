// ============================================================================
// LexZig - Zig front end toolkit
// ============================================================================
// Package: repl
// Description: Interactive read-eval-print loops over the analyzer. The line
//              REPL reads from any reader and stops at the q sentinel; the
//              TUI REPL is a bubbletea program for terminals.
// Author: Mike Stoffels
// Created: 2026-10-18
// License: MIT
// ============================================================================

package repl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	"github.com/msto63/lexzig/foundation/lexzig"
	"github.com/msto63/lexzig/foundation/lexzig/ast"
	"github.com/msto63/lexzig/foundation/lexzig/diag"
	"github.com/msto63/lexzig/foundation/lexzig/lexer"
	"github.com/msto63/lexzig/internal/analyzer/service"
	"github.com/msto63/lexzig/internal/analyzer/store"
)

// Banner is printed when a REPL session starts
const Banner = "Welcome to the LexZig repl!\n\nEnter commands to see the result.\nEnter 'q' to quit.\n"

// Quit ends a session when entered on its own line
const Quit = "q"

// Prompt precedes every input line
const Prompt = "⚡ "

// Mode selects what a REPL prints for a line
type Mode int

const (
	// ModeTree prints the syntax tree in its text form
	ModeTree Mode = iota
	// ModeTokens prints one token per line
	ModeTokens
	// ModeJSON prints the JSON envelope
	ModeJSON
)

// String returns the mode name used by the :mode commands
func (m Mode) String() string {
	switch m {
	case ModeTokens:
		return "tokens"
	case ModeJSON:
		return "json"
	default:
		return "tree"
	}
}

// Next cycles tree, tokens, json
func (m Mode) Next() Mode {
	return (m + 1) % 3
}

// ParseMode converts a mode name
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tree", "ast":
		return ModeTree, nil
	case "tokens":
		return ModeTokens, nil
	case "json":
		return ModeJSON, nil
	}
	return ModeTree, mdwerror.Newf("unknown mode: %s", strings.TrimSpace(s)).WithCode(mdwerror.CodeInvalidInput)
}

// Analyzer is the part of the analyzer service a REPL needs
type Analyzer interface {
	Analyze(ctx context.Context, req service.Request) (*lexzig.Result, error)
}

// Config configures a line REPL
type Config struct {
	In   io.Reader
	Out  io.Writer
	Err  io.Writer
	Mode Mode
	// Plain disables all styling
	Plain bool
	// NoBanner suppresses banner and prompt, for piped input
	NoBanner bool
}

// Evaluation is the rendered outcome of one line
type Evaluation struct {
	Output string
	Errors []string
}

// Evaluate analyzes one line and renders it for mode. Rejected input is
// reported as a single error line.
func Evaluate(ctx context.Context, a Analyzer, line string, mode Mode) Evaluation {
	result, err := a.Analyze(ctx, service.Request{Code: line, Origin: store.OriginCLI})
	if err != nil {
		return Evaluation{Errors: []string{err.Error()}}
	}

	var ev Evaluation
	diags := result.Diagnostics
	if mode == ModeTokens {
		diags = lexicalOnly(diags)
	}
	for _, d := range diags {
		ev.Errors = append(ev.Errors, d.Error())
	}
	// JSON still shows the partial tree
	if len(diags) > 0 && mode != ModeJSON {
		return ev
	}

	switch mode {
	case ModeTokens:
		ev.Output = FormatTokens(result.Tokens)
	case ModeJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			ev.Errors = append(ev.Errors, err.Error())
			return ev
		}
		ev.Output = string(data)
	default:
		ev.Output = ast.Format(result.Program)
	}
	return ev
}

// FormatTokens renders one "KIND value" line per token
func FormatTokens(tokens []lexer.Token) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-16s %s", t.Kind, t.Value)
	}
	return b.String()
}

func lexicalOnly(diags diag.List) diag.List {
	var out diag.List
	for _, d := range diags {
		if d.Kind == diag.Lexical {
			out = append(out, d)
		}
	}
	return out
}

// Run reads lines until EOF or the q sentinel and prints each result.
// Lines starting with ':' switch the mode (:tree, :tokens, :json).
func Run(ctx context.Context, a Analyzer, cfg Config) error {
	outStyles := newStyles(cfg.Out, cfg.Plain)
	errStyles := newStyles(cfg.Err, cfg.Plain)
	mode := cfg.Mode

	if !cfg.NoBanner {
		fmt.Fprintln(cfg.Out, outStyles.render(outStyles.Banner, Banner))
	}

	scanner := bufio.NewScanner(cfg.In)
	scanner.Buffer(make([]byte, 64*1024), lexzig.DefaultMaxInputLength)

	for {
		if !cfg.NoBanner {
			fmt.Fprint(cfg.Out, outStyles.render(outStyles.Prompt, Prompt))
		}
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == Quit {
			return nil
		}

		if strings.HasPrefix(line, ":") {
			m, err := ParseMode(line[1:])
			if err != nil {
				fmt.Fprintln(cfg.Err, errStyles.render(errStyles.Error, "ERROR:")+" "+err.Error())
				continue
			}
			mode = m
			fmt.Fprintln(cfg.Out, outStyles.render(outStyles.Mode, "mode: "+mode.String()))
			continue
		}

		printEvaluation(cfg.Out, cfg.Err, outStyles, errStyles, Evaluate(ctx, a, line, mode))
	}

	if err := scanner.Err(); err != nil {
		return mdwerror.Wrap(err, "failed to read input").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("repl.Run")
	}
	return nil
}

// Print writes the output of ev to out and one "ERROR: " line per error
// to errOut
func Print(out, errOut io.Writer, ev Evaluation, plain bool) {
	printEvaluation(out, errOut, newStyles(out, plain), newStyles(errOut, plain), ev)
}

func printEvaluation(out, errOut io.Writer, outStyles, errStyles styles, ev Evaluation) {
	for _, e := range ev.Errors {
		fmt.Fprintln(errOut, errStyles.render(errStyles.Error, "ERROR:")+" "+e)
	}
	if ev.Output != "" {
		fmt.Fprintln(out, outStyles.render(outStyles.Output, ev.Output))
	}
}
