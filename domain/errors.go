// ABOUTME: Domain-level sentinel errors for the edition pipeline
// ABOUTME: These errors are used with errors.Is() for error type checking
package domain

import "errors"

// Ingestion errors
var (
	// ErrFeedUnavailable indicates a feed could not be fetched or parsed.
	// Non-fatal: the feed is marked dead and contributes zero items.
	ErrFeedUnavailable = errors.New("feed unavailable")
)

// Hydration errors
var (
	// ErrHydrationFailed indicates the full-page fetch produced no usable
	// content. Non-fatal: the original embedded text is retained.
	ErrHydrationFailed = errors.New("hydration failed")

	// ErrNotHTML indicates the fetched page was not an HTML document.
	ErrNotHTML = errors.New("response is not an HTML document")
)

// Generation errors
var (
	// ErrGenerationRefused indicates the service answered with refusal
	// phrasing instead of a summary. Retryable within the attempt budget.
	ErrGenerationRefused = errors.New("generation refused")

	// ErrGenerationUnparsable indicates the response text could not be
	// decomposed into the requested structure. Retryable.
	ErrGenerationUnparsable = errors.New("generation output unparsable")
)

// Run-level errors
var (
	// ErrInsufficientContent indicates too few fresh items and no usable
	// prior edition within the lookback window. Fatal: the run aborts
	// without writing anything.
	ErrInsufficientContent = errors.New("insufficient content for edition")

	// ErrEditionExists indicates an edition for the target date is already
	// on disk. Triggers force mode rather than failing the run.
	ErrEditionExists = errors.New("edition already exists for date")
)
