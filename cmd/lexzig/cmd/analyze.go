package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	"github.com/msto63/lexzig/internal/repl"
	"github.com/msto63/lexzig/pkg/core/logging"
)

type outputOptions struct {
	json   bool
	tokens bool
	plain  bool
}

var analyzeOpts outputOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a Zig source file",
	Long: `Tokenizes and parses a file and prints the syntax tree.

Diagnostics are printed to stderr as "ERROR: at line N: message" lines and
the command exits with status 1. Use "-" to read from stdin.

Examples:
  lexzig analyze main.zig
  lexzig analyze --json main.zig
  lexzig analyze --tokens main.zig
  cat main.zig | lexzig analyze -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyzeFile(cmd, args[0], analyzeOpts)
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "List the tokens of a Zig source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyzeFile(cmd, args[0], outputOptions{tokens: true, plain: analyzeOpts.plain})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(tokensCmd)

	analyzeCmd.Flags().BoolVar(&analyzeOpts.json, "json", false, "print the JSON envelope")
	analyzeCmd.Flags().BoolVar(&analyzeOpts.tokens, "tokens", false, "print tokens instead of the tree")
	analyzeCmd.Flags().BoolVar(&analyzeOpts.plain, "plain", false, "disable colors")
	tokensCmd.Flags().BoolVar(&analyzeOpts.plain, "plain", false, "disable colors")
}

func (o outputOptions) mode() repl.Mode {
	switch {
	case o.json:
		return repl.ModeJSON
	case o.tokens:
		return repl.ModeTokens
	default:
		return repl.ModeTree
	}
}

// analyzeFile prints the analysis of path and returns errDiagnostics when
// the source has problems
func analyzeFile(cmd *cobra.Command, path string, opts outputOptions) error {
	source, err := readSource(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, "lexzig", true, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logging.CloseGlobalFileWriter()

	svc, err := newService(cfg, logger, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	ev := repl.Evaluate(cmd.Context(), svc, source, opts.mode())
	repl.Print(cmd.OutOrStdout(), cmd.ErrOrStderr(), ev, opts.plain)
	if len(ev.Errors) > 0 {
		return errDiagnostics
	}
	return nil
}

func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		code := mdwerror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return "", mdwerror.Wrap(err, "failed to read source").
			WithCode(code).
			WithOperation("cmd.readSource").
			WithDetail("path", path)
	}
	return string(data), nil
}
