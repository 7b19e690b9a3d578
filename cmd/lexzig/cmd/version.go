package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/lexzig/pkg/core/version"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		out := cmd.OutOrStdout()

		if versionJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		fmt.Fprintf(out, "LexZig v%s\n", info.Version)
		if info.Commit != "" {
			fmt.Fprintf(out, "  Git Commit: %s\n", info.Commit)
		}
		if info.BuildDate != "" {
			fmt.Fprintf(out, "  Build Date: %s\n", info.BuildDate)
		}
		fmt.Fprintf(out, "  Go Version: %s\n", info.GoVersion)
		fmt.Fprintf(out, "  OS/Arch:    %s\n", info.Platform)
		fmt.Fprintf(out, "  Components: engine %s, server %s, grpc api %s, repl %s\n",
			version.Engine, version.Server, version.GRPCAPI, version.REPL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print JSON")
}
