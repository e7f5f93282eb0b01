// ABOUTME: End-to-end run orchestration for one edition date
// ABOUTME: Stages degrade internally; only insufficient content and I/O on the final artifact escape
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"edition-builder/config"
	"edition-builder/domain"
	"edition-builder/edition"
	"edition-builder/hydrate"
	"edition-builder/ingest"
	"edition-builder/metrics"
	"edition-builder/seenset"
	"edition-builder/summarize"
	"edition-builder/synthesize"
)

// Generator produces free text for a prompt. Implemented by textgen.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Deps are the pipeline's external collaborators, injected so tests can
// run the whole flow against fakes.
type Deps struct {
	Fetcher    ingest.FeedFetcher
	Extractor  hydrate.PageExtractor
	Generator  Generator
	Store      *edition.Store
	Seen       *seenset.Set
	Aggregator *metrics.Aggregator
	Logger     *slog.Logger
}

// Run builds the edition for one date. Force mode (explicit, or implied
// by an existing edition file for the date) bypasses the seen-set for
// this run only. Returns nil when an edition was written, or when the
// day had too little content but a recent prior edition stands in.
func Run(ctx context.Context, cfg *config.Config, feeds []domain.FeedSource, date time.Time, force bool, deps Deps) error {
	logger := deps.Logger
	agg := deps.Aggregator

	if !force && deps.Store.Exists(date) {
		force = true
		logger.Info("edition already exists for date, regenerating", "date", date.Format("2006-01-02"))
	}

	window := ingest.WindowFor(date, cfg.Ingest.CutoffHour)
	logger.Info("starting edition run",
		"date", date.Format("2006-01-02"),
		"feeds", len(feeds),
		"window_start", window.Start,
		"window_end", window.End,
		"force", force)

	ingestor := ingest.NewIngestor(deps.Fetcher, deps.Seen, cfg.Ingest, agg, logger)
	collected := ingestor.Run(ctx, feeds, window, force)

	stories := make([]*domain.PendingStory, len(collected))
	for i := range collected {
		stories[i] = &collected[i]
	}

	if len(stories) < cfg.Synthesis.MinItems {
		prior := deps.Store.LatestWithin(date, cfg.Synthesis.LookbackDays)
		if prior == "" {
			return fmt.Errorf("%w: %d fresh items for %s, need at least %d, no prior edition within %d days",
				domain.ErrInsufficientContent,
				len(stories), date.Format("2006-01-02"), cfg.Synthesis.MinItems, cfg.Synthesis.LookbackDays)
		}
		logger.Warn("too few fresh items, prior edition stands",
			"items", len(stories),
			"prior", prior)
		agg.Flush(logger)
		return nil
	}

	hydrate.NewScheduler(deps.Extractor, cfg.Hydrate, agg, logger).Run(ctx, stories)

	summarizer := summarize.NewEngine(deps.Generator, cfg.Summarize, agg, deps.Seen, logger)
	items := edition.Reorder(summarizer.Run(ctx, stories))

	synthesizer := synthesize.NewEngine(deps.Generator, cfg.Synthesis, cfg.QA,
		agg, synthesize.DiversityScorer{MaxThemes: cfg.Synthesis.MaxThemes}, logger)
	draft, warnings, err := synthesizer.Run(ctx, items)
	if err != nil {
		return err
	}

	ed := edition.Assemble(date, draft, items, warnings)
	if err := deps.Store.Write(ed); err != nil {
		return fmt.Errorf("writing edition for %s: %w", date.Format("2006-01-02"), err)
	}

	if err := deps.Seen.Save(); err != nil {
		// The edition is already on disk; a stale seen-set only means
		// some items may be reconsidered next run.
		logger.Warn("failed to save seen-set", "error", err)
	}

	agg.Flush(logger)
	logger.Info("edition written",
		"path", deps.Store.Path(date),
		"items", len(items),
		"words", draft.WordCount,
		"warnings", len(warnings))

	return nil
}
