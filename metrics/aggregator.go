// ABOUTME: This file implements the process-scoped outcome counter aggregator
// ABOUTME: Created at pipeline start, passed to stages, flushed once at the end
package metrics

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Counter names incremented by the pipeline stages.
const (
	CounterSuccess           = "success"
	CounterSuccessAfterRetry = "success_after_retry"
	CounterParseFail         = "parse_fail"
	CounterRequestError      = "request_error"
	CounterRefusalFallback   = "refusal_fallback"
	CounterExhaustedFallback = "exhausted_fallback"

	CounterFeedDead       = "feed_dead"
	CounterItemsIngested  = "items_ingested"
	CounterItemsDeduped   = "items_deduped"
	CounterHydrateSuccess = "hydrate_success"
	CounterHydrateFailed  = "hydrate_failed"
	CounterHydrateSkipped = "hydrate_skipped"

	CounterSynthesisRetry    = "synthesis_retry"
	CounterSynthesisFallback = "synthesis_fallback"
)

// Aggregator collects named outcome counters for one pipeline run.
// Increments are key-addressed with no ordering requirement.
type Aggregator struct {
	runID string
	start time.Time

	mu     sync.Mutex
	counts map[string]int64
}

// NewAggregator creates an empty aggregator for the given run.
func NewAggregator(runID string) *Aggregator {
	return &Aggregator{
		runID:  runID,
		start:  time.Now(),
		counts: make(map[string]int64),
	}
}

// Inc increments a counter by one.
func (a *Aggregator) Inc(name string) {
	a.Add(name, 1)
}

// Add increments a counter by n.
func (a *Aggregator) Add(name string, n int64) {
	a.mu.Lock()
	a.counts[name] += n
	a.mu.Unlock()
}

// Get returns the current value of a counter.
func (a *Aggregator) Get(name string) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.counts[name]
}

// Snapshot returns a copy of all counters.
func (a *Aggregator) Snapshot() map[string]int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]int64, len(a.counts))
	for k, v := range a.counts {
		out[k] = v
	}
	return out
}

// Flush logs every counter once, in stable order. Called exactly once at
// pipeline end.
func (a *Aggregator) Flush(logger *slog.Logger) {
	snapshot := a.Snapshot()

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := []any{
		"run_id", a.runID,
		"elapsed", time.Since(a.start).Round(time.Millisecond).String(),
	}
	for _, name := range names {
		attrs = append(attrs, name, snapshot[name])
	}

	logger.Info("pipeline outcome counters", attrs...)
}
