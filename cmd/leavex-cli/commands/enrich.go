package commands

import (
	"log/slog"
	"os"

	"leavex-backend/lib/osutil"
	"leavex-backend/services/overrides"

	"github.com/spf13/cobra"
)

var (
	enrichIn        *string
	enrichOverrides *string
	enrichOut       *string
)

func init() {
	enrichIn = enrichCmd.Flags().String("in", "data/meps_all.json", "The canonical JSON artifact to read.")
	enrichOverrides = enrichCmd.Flags().String("overrides", "data/meps_overrides.json", "The hand-maintained overrides file.")
	enrichOut = enrichCmd.Flags().String("out", "data/meps_enriched.json", "The path to write the enriched JSON artifact to.")
	rootCmd.AddCommand(enrichCmd)
}

var enrichCmd = &cobra.Command{
	Use:   "enrich [--in <meps_all.json>] [--overrides <meps_overrides.json>] [--out <meps_enriched.json>]",
	Short: "Applies the hand-maintained overrides to the canonical artifact.",
	Run: func(cmd *cobra.Command, args []string) {
		result, err := overrides.Run(cmd.Context(), overrides.Options{
			CanonicalPath: *enrichIn,
			OverridesPath: *enrichOverrides,
			OutputPath:    *enrichOut,
		})
		if err != nil {
			osutil.Fatal("enrich stage failed", err)
		}

		result.Anomalies.Render(os.Stderr)
		slog.Info(
			"enrich stage done",
			"records", len(result.Records),
			"anomalies", len(result.Anomalies.Items()),
		)
	},
}
