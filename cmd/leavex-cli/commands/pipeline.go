package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"leavex-backend/internal/pagecache"
	"leavex-backend/internal/scrapers/europarl"
	"leavex-backend/lib/osutil"
	"leavex-backend/lib/telemetry"
	"leavex-backend/services/collector"
	"leavex-backend/services/normalizer"
	"leavex-backend/services/overrides"

	"github.com/spf13/cobra"
)

var (
	pipelineDataDir *string
	pipelineBaseUrl *string
	pipelineCache   *string
	pipelineOffline *bool
)

func init() {
	pipelineDataDir = pipelineCmd.Flags().String("data", "data", "The directory holding all pipeline artifacts.")
	pipelineBaseUrl = pipelineCmd.Flags().String("base-url", europarl.DefaultBaseUrl, "The directory base URL.")
	pipelineCache = pipelineCmd.Flags().String("cache", "", "A sqlite database to record fetched pages in.")
	pipelineOffline = pipelineCmd.Flags().Bool("offline", false, "Serve pages from the cache instead of the network.")
	rootCmd.AddCommand(pipelineCmd)
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline [--data <dir>]",
	Short: "Runs all three stages in sequence over the standard artifact paths.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		telemetry.InstrumentPerfStats(ctx)

		dataDir := *pipelineDataDir
		csvPath := filepath.Join(dataDir, "meps_all.csv")
		canonicalPath := filepath.Join(dataDir, "meps_all.json")
		overridesPath := filepath.Join(dataDir, "meps_overrides.json")
		enrichedPath := filepath.Join(dataDir, "meps_enriched.json")

		var cache *pagecache.Cache
		if *pipelineCache != "" {
			var err error
			cache, err = pagecache.Open(*pipelineCache)
			if err != nil {
				osutil.Fatal("failed to open page cache", err)
			}
			defer cache.Close()
		}

		client, err := europarl.NewClient(europarl.ClientOptions{
			BaseUrl: *pipelineBaseUrl,
			Cache:   cache,
			Offline: *pipelineOffline,
		})
		if err != nil {
			osutil.Fatal("failed to initialize directory client", err)
		}

		t1 := time.Now()

		collected, err := collector.Run(ctx, client, collector.Options{OutputPath: csvPath})
		if err != nil {
			osutil.Fatal("collect stage failed", err)
		}
		normalized, err := normalizer.Run(ctx, normalizer.Options{
			InputPath:  csvPath,
			OutputPath: canonicalPath,
		})
		if err != nil {
			osutil.Fatal("normalize stage failed", err)
		}
		enriched, err := overrides.Run(ctx, overrides.Options{
			CanonicalPath: canonicalPath,
			OverridesPath: overridesPath,
			OutputPath:    enrichedPath,
		})
		if err != nil {
			osutil.Fatal("enrich stage failed", err)
		}

		collected.Anomalies.Render(os.Stderr)
		normalized.Anomalies.Render(os.Stderr)
		enriched.Anomalies.Render(os.Stderr)

		slog.Info(
			"pipeline done",
			"records", len(enriched.Records),
			"seconds", time.Since(t1).Seconds(),
		)
	},
}
