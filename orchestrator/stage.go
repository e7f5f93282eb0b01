// Package orchestrator provides the ordered, bounded-concurrency stage
// runner shared by the pipeline stages. Results always land at the index
// of their input, so downstream consumers see submission order no matter
// how completion times interleave.
package orchestrator

import (
	"context"
	"sync"
)

// Result wraps the output of a stage task with its error.
type Result[Out any] struct {
	Value Out
	Err   error
	Index int // position of the input this result belongs to
}

// Stage defines a concurrent processing stage.
type Stage[In, Out any] struct {
	Name        string
	Concurrency int
	Process     func(ctx context.Context, input In) (Out, error)
}

// Run executes the stage over all inputs with bounded concurrency.
// The returned slice is indexed by input position.
func Run[In, Out any](ctx context.Context, stage Stage[In, Out], inputs []In) []Result[Out] {
	if len(inputs) == 0 {
		return nil
	}

	concurrency := stage.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > len(inputs) {
		concurrency = len(inputs)
	}

	results := make([]Result[Out], len(inputs))
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(idx int, in In) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = Result[Out]{Err: ctx.Err(), Index: idx}
				return
			}

			if ctx.Err() != nil {
				results[idx] = Result[Out]{Err: ctx.Err(), Index: idx}
				return
			}

			out, err := stage.Process(ctx, in)
			results[idx] = Result[Out]{Value: out, Err: err, Index: idx}
		}(i, input)
	}

	wg.Wait()
	return results
}
