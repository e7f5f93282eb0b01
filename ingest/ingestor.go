package ingest

import (
	"context"
	"log/slog"

	"edition-builder/config"
	"edition-builder/domain"
	"edition-builder/metrics"
	"edition-builder/seenset"

	"golang.org/x/sync/errgroup"
)

// Ingestor runs the ingestion stage: concurrent feed fetches, freshness
// filtering, seen-set dedup, and configuration-ordered output.
type Ingestor struct {
	fetcher FeedFetcher
	seen    *seenset.Set
	cfg     config.IngestConfig
	agg     *metrics.Aggregator
	logger  *slog.Logger
}

func NewIngestor(fetcher FeedFetcher, seen *seenset.Set, cfg config.IngestConfig, agg *metrics.Aggregator, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		fetcher: fetcher,
		seen:    seen,
		cfg:     cfg,
		agg:     agg,
		logger:  logger,
	}
}

// Run fetches every configured feed with bounded concurrency and returns
// the pending stories flattened in configuration order, positions
// assigned. A failing feed is marked dead and contributes zero items;
// ingestion never aborts the run for a single feed.
func (in *Ingestor) Run(ctx context.Context, feeds []domain.FeedSource, window Window, force bool) []domain.PendingStory {
	perFeed := make([][]domain.CandidateItem, len(feeds))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(in.cfg.MaxConcurrentFeeds)

	for i, feed := range feeds {
		i, feed := i, feed
		group.Go(func() error {
			items, err := in.fetcher.Fetch(groupCtx, feed)
			if err != nil {
				in.logger.Warn("feed marked dead", "feed", feed.Name, "error", err)
				in.agg.Inc(metrics.CounterFeedDead)
				return nil // dead feeds never fail the stage
			}

			fresh := FilterFresh(items, window, in.cfg.MaxPerFeed)
			in.logger.Info("feed ingested",
				"feed", feed.Name,
				"items", len(items),
				"fresh", len(fresh))

			perFeed[i] = fresh
			return nil
		})
	}

	// Workers only write their own slot and never return errors.
	_ = group.Wait()

	return in.flatten(feeds, perFeed, force)
}

// flatten concatenates per-feed results in configuration order, dropping
// items already present in the seen set unless the run is forced.
func (in *Ingestor) flatten(feeds []domain.FeedSource, perFeed [][]domain.CandidateItem, force bool) []domain.PendingStory {
	var stories []domain.PendingStory

	position := 0
	for i, feed := range feeds {
		for _, item := range perFeed[i] {
			if !force && in.seen.Contains(seenset.Fingerprint(item.URL)) {
				in.logger.Debug("item already seen", "feed", feed.Name, "url", item.URL)
				in.agg.Inc(metrics.CounterItemsDeduped)
				continue
			}

			stories = append(stories, domain.PendingStory{
				Feed:     feed,
				Item:     item,
				Position: position,
				Text:     item.RawContent,
			})
			position++
		}
	}

	in.agg.Add(metrics.CounterItemsIngested, int64(len(stories)))
	return stories
}
