package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/lexzig/internal/repl"
	"github.com/msto63/lexzig/pkg/core/logging"
)

type replOptions struct {
	outputOptions
	tui bool
}

var replOpts replOptions

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive repl",
	Long: `Reads one line at a time and prints its syntax tree, tokens or JSON.
Enter 'q' to quit. ':tree', ':tokens' and ':json' switch the output.

On a terminal the full screen repl starts; --plain keeps the line repl.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd, replOpts)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().BoolVar(&replOpts.tokens, "tokens", false, "start in token mode")
	replCmd.Flags().BoolVar(&replOpts.json, "json", false, "start in JSON mode")
	replCmd.Flags().BoolVar(&replOpts.plain, "plain", false, "line repl without colors")
	replCmd.Flags().BoolVar(&replOpts.tui, "tui", false, "force the full screen repl")
}

func runRepl(cmd *cobra.Command, opts replOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, "lexzig-repl", true, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logging.CloseGlobalFileWriter()

	svc, err := newService(cfg, logger, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	interactive := repl.IsTerminal(in) && repl.IsTerminal(out)

	if opts.tui || (interactive && !opts.plain) {
		return repl.RunTUI(cmd.Context(), svc, opts.mode())
	}

	return repl.Run(cmd.Context(), svc, repl.Config{
		In:       in,
		Out:      out,
		Err:      cmd.ErrOrStderr(),
		Mode:     opts.mode(),
		Plain:    opts.plain,
		NoBanner: !repl.IsTerminal(in),
	})
}
