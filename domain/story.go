package domain

import "time"

// FeedSource is an external feed as configured by the operator.
// Immutable for the lifetime of a run.
type FeedSource struct {
	Name string   `yaml:"name"`
	URL  string   `yaml:"url"`
	Tags []string `yaml:"tags,omitempty"`
}

// CandidateItem is a single entry returned by a feed. URL is the natural
// key; PublishedAt may be the zero value when the feed did not carry a
// parsable timestamp (such items are treated as always fresh).
type CandidateItem struct {
	Title       string
	URL         string
	PublishedAt time.Time
	RawContent  string
}

// PendingStory is a candidate item that survived freshness and dedup
// filtering. Position is the item's index in the flattened,
// configuration-ordered ingestion output and is the stable sort key for
// final assembly. Text starts as the embedded feed content and is
// replaced in place by hydration when a full-page fetch succeeds.
type PendingStory struct {
	Feed     FeedSource
	Item     CandidateItem
	Position int
	Text     string
	Hydrated bool
}

// NarrativeItem is the unit consumed by synthesis: one story plus its
// summary. List order is semantically meaningful and must match
// ingestion order regardless of completion timing.
type NarrativeItem struct {
	Feed        string
	Title       string
	URL         string
	PublishedAt time.Time
	Position    int
	Summary     SummaryResult
}
