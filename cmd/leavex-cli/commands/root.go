package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"leavex-backend/lib/telemetry"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "leavex-cli",
	Short: "leavex-cli runs the MEP directory pipeline: collect, normalize, enrich.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)

		// a short id to correlate the log lines of one run
		runId, err := random.String(8)
		if err == nil {
			slog.Info("starting", "command", cmd.Name(), "run_id", runId)
		}
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging and request dumps.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
