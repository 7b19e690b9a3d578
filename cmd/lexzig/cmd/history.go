package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	"github.com/msto63/lexzig/internal/analyzer/service"
	"github.com/msto63/lexzig/internal/analyzer/store"
	"github.com/msto63/lexzig/pkg/core/logging"
)

var (
	historyLimit  int
	historyPrune  string
	historyFailed bool
	historyOrigin string
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or prune recorded analyses",
	Long: `Shows the analyses recorded by the API and the command line.

History must be enabled in the config ([history] enabled = true) or with
LEXZIG_HISTORY_PATH.

Examples:
  lexzig history
  lexzig history --limit 50 --failed
  lexzig history --origin websocket --json
  lexzig history --prune 30d`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "number of entries (default from config)")
	historyCmd.Flags().StringVar(&historyPrune, "prune", "", "delete entries older than this age (e.g. 72h, 30d)")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "only analyses with diagnostics")
	historyCmd.Flags().StringVar(&historyOrigin, "origin", "", "filter by origin (http, websocket, grpc, cli)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return service.ErrHistoryDisabled()
	}

	logger, err := newLogger(cfg, "lexzig-history", true, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logging.CloseGlobalFileWriter()

	svc, err := newService(cfg, logger, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if historyPrune != "" {
		age, err := parseAge(historyPrune)
		if err != nil {
			return err
		}
		n, err := svc.PruneHistory(ctx, age)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d entries older than %s\n", n, historyPrune)
		return nil
	}

	records, err := svc.History(ctx, store.Filter{
		Origin:     store.Origin(historyOrigin),
		FailedOnly: historyFailed,
		Limit:      historyLimit,
	})
	if err != nil {
		return err
	}
	stats, err := svc.HistoryStats(ctx)
	if err != nil {
		return err
	}

	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Records []*store.Record `json:"records"`
			Stats   *store.Stats    `json:"stats"`
		}{records, stats})
	}

	printHistory(out, records, stats)
	return nil
}

func printHistory(w io.Writer, records []*store.Record, stats *store.Stats) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No analyses recorded.")
		return
	}

	fmt.Fprintf(w, "%-19s  %-9s  %7s  %6s  %5s  %s\n", "TIME", "ORIGIN", "BYTES", "TOKENS", "DIAG", "FIRST ERROR")
	for _, r := range records {
		first := r.FirstError
		if len(first) > 60 {
			first = first[:57] + "..."
		}
		fmt.Fprintf(w, "%-19s  %-9s  %7d  %6d  %5d  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Origin, r.Bytes, r.Tokens, r.Diagnostics, first)
	}

	if stats != nil {
		fmt.Fprintf(w, "\n%d analyses, %d with diagnostics, avg %.0f bytes, avg %.2f ms\n",
			stats.Total, stats.Failed, stats.AvgBytes, stats.AvgDuration)
	}
}

// parseAge accepts Go durations plus a day suffix ("30d")
func parseAge(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err == nil && n > 0 {
			return time.Duration(n) * 24 * time.Hour, nil
		}
	} else if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, nil
	}
	return 0, mdwerror.Newf("invalid age: %q", s).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("cmd.history")
}
