package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	mdwlog "github.com/msto63/lexzig/foundation/core/log"
	"github.com/msto63/lexzig/internal/repl"
	"github.com/msto63/lexzig/pkg/core/logging"
)

const watchDebounce = 100 * time.Millisecond

var watchOpts outputOptions

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-analyze a file whenever it changes",
	Long: `Analyzes a file once and again after every change until interrupted.

The directory is watched, not the file, so editors that save by renaming
a temporary file are picked up too.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchOpts.json, "json", false, "print the JSON envelope")
	watchCmd.Flags().BoolVar(&watchOpts.tokens, "tokens", false, "print tokens instead of the tree")
	watchCmd.Flags().BoolVar(&watchOpts.plain, "plain", false, "disable colors")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, "lexzig-watch", true, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logging.CloseGlobalFileWriter()

	svc, err := newService(cfg, logger, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchFile(ctx, args[0], logger, func(source string) {
		printWatchHeader(cmd.OutOrStdout(), args[0])
		ev := repl.Evaluate(ctx, svc, source, watchOpts.mode())
		repl.Print(cmd.OutOrStdout(), cmd.ErrOrStderr(), ev, watchOpts.plain)
	})
}

func printWatchHeader(w io.Writer, path string) {
	fmt.Fprintf(w, "--- %s (%s)\n", path, time.Now().Format("15:04:05"))
}

// watchFile calls analyze with the file content now and after each change
// until ctx ends. Bursts of events within watchDebounce count once.
func watchFile(ctx context.Context, path string, logger *mdwlog.Logger, analyze func(source string)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return mdwerror.Wrap(err, "invalid path").WithCode(mdwerror.CodeInvalidInput)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create file watcher").
			WithCode(mdwerror.CodeUnavailable).
			WithOperation("cmd.watch")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return mdwerror.Wrap(err, "failed to watch directory").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("cmd.watch").
			WithDetail("path", filepath.Dir(abs))
	}

	load := func() {
		data, err := os.ReadFile(abs)
		if err != nil {
			logger.Warn("Cannot read watched file", mdwlog.Fields{"path": abs, "error": err.Error()})
			return
		}
		analyze(string(data))
	}
	load()

	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debug("File changed", mdwlog.Fields{"path": abs, "op": event.Op.String()})
				timer.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", mdwlog.Fields{"error": err.Error()})

		case <-timer.C:
			load()
		}
	}
}
