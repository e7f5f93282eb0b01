// Package hydrate replaces too-short embedded feed content with fetched
// full-article text, under dual admission control: a global in-flight cap
// and a smaller per-destination-host cap.
package hydrate

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"edition-builder/config"
	"edition-builder/domain"
	"edition-builder/metrics"
)

// PageExtractor fetches one article page and returns its readable text.
type PageExtractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

// Scheduler dispatches hydration fetches. A story is dispatched only when
// both the global counter and its host's counter are below their caps;
// completion releases both and admits the next eligible story. Every
// story is attempted exactly once and failure is non-fatal: the original
// embedded text is retained.
type Scheduler struct {
	extractor PageExtractor
	cfg       config.HydrateConfig
	agg       *metrics.Aggregator
	logger    *slog.Logger

	globalSlots chan struct{}

	mu        sync.Mutex
	hostSlots map[string]chan struct{}
}

func NewScheduler(extractor PageExtractor, cfg config.HydrateConfig, agg *metrics.Aggregator, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		extractor:   extractor,
		cfg:         cfg,
		agg:         agg,
		logger:      logger,
		globalSlots: make(chan struct{}, cfg.GlobalLimit),
		hostSlots:   make(map[string]chan struct{}),
	}
}

// Run hydrates every story that needs it, mutating stories in place.
// Returns when all stories have been attempted exactly once.
func (s *Scheduler) Run(ctx context.Context, stories []*domain.PendingStory) {
	var wg sync.WaitGroup

	for _, story := range stories {
		if len(story.Text) >= s.cfg.MinContentChars {
			s.agg.Inc(metrics.CounterHydrateSkipped)
			continue
		}

		wg.Add(1)
		go func(st *domain.PendingStory) {
			defer wg.Done()
			s.hydrateOne(ctx, st)
		}(story)
	}

	wg.Wait()
}

func (s *Scheduler) hydrateOne(ctx context.Context, story *domain.PendingStory) {
	host := hostOf(story.Item.URL)

	// Host slot first: a story waiting for the global cap holds only its
	// own host's slot and never starves fetches to other hosts.
	hostSlot := s.slotsFor(host)

	select {
	case hostSlot <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-hostSlot }()

	select {
	case s.globalSlots <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-s.globalSlots }()

	text, err := s.extractor.Extract(ctx, story.Item.URL)
	if err != nil || text == "" {
		// Keep the original (possibly short) text.
		s.logger.Warn("hydration failed, keeping embedded content",
			"url", story.Item.URL,
			"host", host,
			"error", err)
		s.agg.Inc(metrics.CounterHydrateFailed)
		return
	}

	story.Text = text
	story.Hydrated = true
	s.agg.Inc(metrics.CounterHydrateSuccess)

	s.logger.Debug("story hydrated", "url", story.Item.URL, "chars", len(text))
}

func (s *Scheduler) slotsFor(host string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, ok := s.hostSlots[host]
	if !ok {
		slots = make(chan struct{}, s.cfg.PerHostLimit)
		s.hostSlots[host] = slots
	}
	return slots
}

func hostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return "unknown"
	}
	return parsed.Hostname()
}
