// ABOUTME: Entry point: builds one edition for a target date and exits
// ABOUTME: Exit code 1 means insufficient content or a configuration/storage failure
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edition-builder/config"
	"edition-builder/edition"
	"edition-builder/hydrate"
	"edition-builder/ingest"
	"edition-builder/logger"
	"edition-builder/metrics"
	"edition-builder/pipeline"
	"edition-builder/seenset"
	"edition-builder/textgen"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	log := logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	feeds, err := config.LoadFeeds(cfg.Ingest.FeedsFile)
	if err != nil {
		log.Error("failed to load feed list", "error", err, "file", cfg.Ingest.FeedsFile)
		os.Exit(1)
	}

	date, err := targetDate()
	if err != nil {
		log.Error("invalid EDITION_DATE", "error", err)
		os.Exit(1)
	}
	force := os.Getenv("EDITION_FORCE") == "true"

	seen, err := seenset.Load(cfg.Edition.SeenSetFile)
	if err != nil {
		log.Error("failed to load seen-set", "error", err, "file", cfg.Edition.SeenSetFile)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg := metrics.NewAggregator(uuid.NewString())

	if cfg.Metrics.Enabled {
		server := metrics.NewServer(agg, cfg.Metrics, log)
		server.Start()
		defer server.Shutdown()
	}

	deps := pipeline.Deps{
		Fetcher:    ingest.NewHTTPFetcher(cfg.Ingest),
		Extractor:  hydrate.NewReadabilityExtractor(cfg.Hydrate),
		Generator:  textgen.NewClient(cfg.TextGen, log),
		Store:      edition.NewStore(cfg.Edition.OutputDir),
		Seen:       seen,
		Aggregator: agg,
		Logger:     log,
	}

	if err := pipeline.Run(ctx, cfg, feeds, date, force, deps); err != nil {
		log.Error("edition run failed", "date", date.Format("2006-01-02"), "error", err)
		os.Exit(1)
	}
}

// targetDate reads EDITION_DATE (YYYY-MM-DD), defaulting to today.
func targetDate() (time.Time, error) {
	raw := os.Getenv("EDITION_DATE")
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.Parse("2006-01-02", raw)
}
