// ABOUTME: Quality-gated long-form synthesis with bounded regeneration
// ABOUTME: Always terminates in an accepted draft, a degraded draft, or the deterministic fallback
package synthesize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"edition-builder/config"
	"edition-builder/domain"
	"edition-builder/metrics"
	"edition-builder/qa"
	"edition-builder/retry"
)

// Generator produces free text for a prompt. Implemented by textgen.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Engine drives the generate/parse/validate loop for the briefing
// document and owns the fallback path.
type Engine struct {
	gen     Generator
	cfg     config.SynthesisConfig
	qaCfg   config.QAConfig
	agg     *metrics.Aggregator
	scorer  ThemeScorer
	retrier *retry.Retrier
	logger  *slog.Logger
}

func NewEngine(gen Generator, cfg config.SynthesisConfig, qaCfg config.QAConfig, agg *metrics.Aggregator, scorer ThemeScorer, logger *slog.Logger) *Engine {
	if scorer == nil {
		scorer = DiversityScorer{MaxThemes: cfg.MaxThemes}
	}

	transport := retry.Config{
		MaxAttempts:   2,
		BaseDelay:     time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.2,
	}

	return &Engine{
		gen:     gen,
		cfg:     cfg,
		qaCfg:   qaCfg,
		agg:     agg,
		scorer:  scorer,
		retrier: retry.NewRetrier(transport, retry.IsRetryable, logger),
		logger:  logger,
	}
}

// Run produces the briefing draft for the ordered item list, plus any
// warnings to surface on the finished edition. The returned error is
// only ErrInsufficientContent; every other failure degrades to the
// deterministic fallback composer.
func (e *Engine) Run(ctx context.Context, items []domain.NarrativeItem) (*domain.BriefingDraft, []string, error) {
	if len(items) < e.cfg.MinItems {
		return nil, nil, fmt.Errorf("%w: %d items, need at least %d",
			domain.ErrInsufficientContent, len(items), e.cfg.MinItems)
	}

	prompt := buildPrompt(items)

	var (
		lastDraft  *domain.BriefingDraft
		lastReport domain.QAReport
	)

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		raw, err := e.generate(ctx, prompt)
		if err != nil {
			e.logger.Warn("briefing generation failed", "attempt", attempt, "error", err)
			continue
		}

		draft, ok := parseDraft(raw)
		if !ok {
			e.logger.Warn("briefing response had no recognizable sections", "attempt", attempt)
			continue
		}

		report := qa.Validate(draft, e.qaCfg)
		if report.OK() {
			e.logger.Info("briefing draft accepted",
				"attempt", attempt,
				"words", draft.WordCount,
				"warnings", len(report.Warnings))
			return draft, report.Warnings, nil
		}

		lastDraft, lastReport = draft, report
		e.logger.Warn("briefing draft rejected by quality gate",
			"attempt", attempt,
			"errors", report.Errors)

		if attempt < e.cfg.MaxAttempts {
			e.agg.Inc(metrics.CounterSynthesisRetry)
			prompt = buildReinforcedPrompt(items, report.Errors)
		}
	}

	if lastDraft != nil {
		// Attempts exhausted with a structurally parseable draft: accept
		// it and surface every blocking violation as a warning.
		warnings := append([]string{}, lastReport.Warnings...)
		for _, violation := range lastReport.Errors {
			warnings = append(warnings, "quality gate: "+violation)
		}
		e.logger.Warn("accepting briefing draft with unresolved violations", "violations", len(lastReport.Errors))
		return lastDraft, warnings, nil
	}

	e.agg.Inc(metrics.CounterSynthesisFallback)
	e.logger.Warn("no usable briefing from generation service, composing fallback")

	draft := ComposeFallback(items, e.scorer)
	return draft, []string{"generation service produced no usable draft; deterministic fallback used"}, nil
}

// generate wraps one briefing request with transport-level retries,
// separate from the quality-gate attempt budget.
func (e *Engine) generate(ctx context.Context, prompt string) (string, error) {
	var raw string
	err := e.retrier.Do(ctx, func() error {
		var genErr error
		raw, genErr = e.gen.Generate(ctx, prompt)
		return genErr
	})
	return raw, err
}
