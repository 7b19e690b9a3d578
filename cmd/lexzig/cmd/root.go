package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// errDiagnostics signals that the analyzed source had problems. They are
// already printed, so Execute only sets the exit status.
var errDiagnostics = errors.New("source has diagnostics")

var rootCmd = &cobra.Command{
	Use:   "lexzig [file]",
	Short: "LexZig - lexical and syntactical analysis for a subset of Zig",
	Long: `LexZig tokenizes and parses a subset of the Zig programming language.

With a file argument the file is analyzed and its syntax tree printed.
Without an argument the interactive repl starts.

Commands:
  analyze  - analyze a file (tree, tokens or JSON)
  tokens   - list the tokens of a file
  repl     - interactive repl
  watch    - re-analyze a file whenever it changes
  serve    - HTTP, websocket and gRPC API
  history  - list or prune recorded analyses`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return analyzeFile(cmd, args[0], outputOptions{})
		}
		return runRepl(cmd, replOptions{})
	},
}

// Execute runs the command tree
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errDiagnostics) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $LEXZIG_CONFIG or ./configs/lexzig.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func printError(w io.Writer, err error) {
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
