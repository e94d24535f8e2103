package commands

import (
	"log/slog"
	"os"

	"leavex-backend/lib/osutil"
	"leavex-backend/services/normalizer"

	"github.com/spf13/cobra"
)

var (
	normalizeIn  *string
	normalizeOut *string
)

func init() {
	normalizeIn = normalizeCmd.Flags().String("in", "data/meps_all.csv", "The raw CSV artifact to read.")
	normalizeOut = normalizeCmd.Flags().String("out", "data/meps_all.json", "The path to write the canonical JSON artifact to.")
	rootCmd.AddCommand(normalizeCmd)
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize [--in <path/to/meps_all.csv>] [--out <path/to/meps_all.json>]",
	Short: "Cleans the raw CSV rows into the canonical JSON artifact.",
	Run: func(cmd *cobra.Command, args []string) {
		result, err := normalizer.Run(cmd.Context(), normalizer.Options{
			InputPath:  *normalizeIn,
			OutputPath: *normalizeOut,
		})
		if err != nil {
			osutil.Fatal("normalize stage failed", err)
		}

		result.Anomalies.Render(os.Stderr)
		slog.Info(
			"normalize stage done",
			"records", len(result.Records),
			"anomalies", len(result.Anomalies.Items()),
		)
	},
}
