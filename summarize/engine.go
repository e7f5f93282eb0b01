// ABOUTME: Per-story summarization engine with a bounded attempt state machine
// ABOUTME: Attempt(n) moves to Success, Attempt(n+1), or Fallback; never past the stage boundary
package summarize

import (
	"context"
	"log/slog"
	"time"

	"edition-builder/config"
	"edition-builder/domain"
	"edition-builder/metrics"
	"edition-builder/orchestrator"
	"edition-builder/retry"
	"edition-builder/seenset"
)

// Generator produces free text for a prompt. Implemented by textgen.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// failure classes tracked across attempts to pick the fallback counter.
type failureClass int

const (
	failNone failureClass = iota
	failRequest
	failParse
	failRefusal
)

// Engine summarizes hydrated stories. Failures terminate in a
// deterministic fallback summary, so every story always ends with
// exactly one SummaryResult.
type Engine struct {
	gen    Generator
	cfg    config.SummarizeConfig
	agg    *metrics.Aggregator
	seen   *seenset.Set
	logger *slog.Logger

	backoff retry.Config
}

func NewEngine(gen Generator, cfg config.SummarizeConfig, agg *metrics.Aggregator, seen *seenset.Set, logger *slog.Logger) *Engine {
	return &Engine{
		gen:    gen,
		cfg:    cfg,
		agg:    agg,
		seen:   seen,
		logger: logger,
		backoff: retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			BaseDelay:     cfg.BaseDelay,
			MaxDelay:      cfg.MaxDelay,
			BackoffFactor: cfg.BackoffFactor,
			JitterFactor:  cfg.JitterFactor,
		},
	}
}

// Run summarizes all stories with bounded concurrency. Results come back
// indexed by input position, so the narrative list preserves ingestion
// order regardless of completion timing.
func (e *Engine) Run(ctx context.Context, stories []*domain.PendingStory) []domain.NarrativeItem {
	stage := orchestrator.Stage[*domain.PendingStory, domain.NarrativeItem]{
		Name:        "summarize",
		Concurrency: e.cfg.Concurrency,
		Process: func(ctx context.Context, story *domain.PendingStory) (domain.NarrativeItem, error) {
			return e.summarizeStory(ctx, story), nil
		},
	}

	results := orchestrator.Run(ctx, stage, stories)

	items := make([]domain.NarrativeItem, len(results))
	for i, result := range results {
		if result.Err != nil {
			// Only context cancellation reaches here; settle the story
			// with its fallback so totality holds.
			items[i] = e.finish(stories[i], Fallback(stories[i]))
			continue
		}
		items[i] = result.Value
	}

	return items
}

func (e *Engine) summarizeStory(ctx context.Context, story *domain.PendingStory) domain.NarrativeItem {
	prompt := buildPrompt(story)

	lastFailure := failNone

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		raw, err := e.gen.Generate(ctx, prompt)
		if err != nil {
			e.agg.Inc(metrics.CounterRequestError)
			lastFailure = failRequest

			e.logger.Warn("summary request failed",
				"url", story.Item.URL,
				"attempt", attempt,
				"error", err)

			if !retry.IsRetryable(err) {
				break
			}
		} else {
			outcome := Classify(raw)
			switch outcome.Kind {
			case OutcomeSuccess:
				if attempt == 1 {
					e.agg.Inc(metrics.CounterSuccess)
				} else {
					e.agg.Inc(metrics.CounterSuccessAfterRetry)
				}
				return e.finish(story, domain.SummaryResult{
					Abstract:        outcome.Abstract,
					Bullets:         outcome.Bullets,
					TranslatedTitle: outcome.TranslatedTitle,
					Provenance:      domain.ProvenanceSuccess,
				})

			case OutcomeRefusal:
				lastFailure = failRefusal
				e.logger.Warn("summary refused", "url", story.Item.URL, "attempt", attempt)

			case OutcomeParseFailure:
				e.agg.Inc(metrics.CounterParseFail)
				lastFailure = failParse
				e.logger.Warn("summary unparsable",
					"url", story.Item.URL,
					"attempt", attempt,
					"reason", outcome.Reason)
			}
		}

		if attempt < e.cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return e.finish(story, Fallback(story))
			case <-time.After(e.backoff.Delay(attempt)):
			}
		}
	}

	if lastFailure == failRefusal {
		e.agg.Inc(metrics.CounterRefusalFallback)
	} else {
		e.agg.Inc(metrics.CounterExhaustedFallback)
	}

	e.logger.Info("summary attempts exhausted, using extractive fallback", "url", story.Item.URL)

	return e.finish(story, Fallback(story))
}

// finish attaches the summary and marks the story's fingerprint as seen.
// The seen-set mutation happens only here, once per story, after its
// processing is fully complete.
func (e *Engine) finish(story *domain.PendingStory, summary domain.SummaryResult) domain.NarrativeItem {
	e.seen.Add(seenset.Fingerprint(story.Item.URL))

	return domain.NarrativeItem{
		Feed:        story.Feed.Name,
		Title:       story.Item.Title,
		URL:         story.Item.URL,
		PublishedAt: story.Item.PublishedAt,
		Position:    story.Position,
		Summary:     summary,
	}
}
