package commands

import (
	"log/slog"
	"os"
	"time"

	"leavex-backend/internal/pagecache"
	"leavex-backend/internal/scrapers/europarl"
	"leavex-backend/lib/osutil"
	"leavex-backend/lib/restyutil"
	"leavex-backend/lib/telemetry"
	"leavex-backend/services/collector"

	"github.com/spf13/cobra"
)

var (
	collectOut     *string
	collectBaseUrl *string
	collectCache   *string
	collectOffline *bool
)

func init() {
	collectOut = collectCmd.Flags().String("out", "data/meps_all.csv", "The path to write the raw CSV artifact to.")
	collectBaseUrl = collectCmd.Flags().String("base-url", europarl.DefaultBaseUrl, "The directory base URL.")
	collectCache = collectCmd.Flags().String("cache", "", "A sqlite database to record fetched pages in.")
	collectOffline = collectCmd.Flags().Bool("offline", false, "Serve pages from the cache instead of the network.")
	rootCmd.AddCommand(collectCmd)
}

var collectCmd = &cobra.Command{
	Use:   "collect [--out <path/to/meps_all.csv>]",
	Short: "Scrapes the MEP directory into the raw CSV artifact.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		telemetry.InstrumentPerfStats(ctx)

		if *verbose {
			europarl.SetRestyInstrumentOutput(
				restyutil.NewFilesystemOutput(".dev/resty/europarl"),
			)
		}

		var cache *pagecache.Cache
		if *collectCache != "" {
			var err error
			cache, err = pagecache.Open(*collectCache)
			if err != nil {
				osutil.Fatal("failed to open page cache", err)
			}
			defer cache.Close()
		}

		client, err := europarl.NewClient(europarl.ClientOptions{
			BaseUrl: *collectBaseUrl,
			Cache:   cache,
			Offline: *collectOffline,
		})
		if err != nil {
			osutil.Fatal("failed to initialize directory client", err)
		}

		t1 := time.Now()
		result, err := collector.Run(ctx, client, collector.Options{
			OutputPath: *collectOut,
		})
		if err != nil {
			osutil.Fatal("collect stage failed", err)
		}

		result.Anomalies.Render(os.Stderr)
		slog.Info(
			"collect stage done",
			"records", len(result.Records),
			"anomalies", len(result.Anomalies.Items()),
			"seconds", time.Since(t1).Seconds(),
		)
	},
}
