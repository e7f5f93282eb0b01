package ingest

import (
	"sort"
	"time"

	"edition-builder/domain"
)

// Window is the 24-hour collection interval [Start, End) of an edition.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor anchors the window to the configured cutoff hour on the
// edition date: items published in the 24 hours before the cutoff belong
// to that date's edition.
func WindowFor(date time.Time, cutoffHour int) Window {
	end := time.Date(date.Year(), date.Month(), date.Day(), cutoffHour, 0, 0, 0, date.Location())
	return Window{Start: end.Add(-24 * time.Hour), End: end}
}

// Contains reports whether a publish time falls inside the window.
// The zero time (no parsable timestamp) always counts as fresh.
func (w Window) Contains(published time.Time) bool {
	if published.IsZero() {
		return true
	}
	return !published.Before(w.Start) && published.Before(w.End)
}

// FilterFresh keeps the in-window items of one feed, newest first, capped
// at maxItems. Items are sorted descending by publish time so the walk
// can stop at the first item older than the window: everything after it
// is older still. Items without a timestamp sort newest and are kept.
func FilterFresh(items []domain.CandidateItem, w Window, maxItems int) []domain.CandidateItem {
	sorted := make([]domain.CandidateItem, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].PublishedAt, sorted[j].PublishedAt
		if a.IsZero() {
			return !b.IsZero() // unknown timestamps first
		}
		if b.IsZero() {
			return false
		}
		return a.After(b)
	})

	kept := make([]domain.CandidateItem, 0, maxItems)
	for _, item := range sorted {
		ts := item.PublishedAt
		if !ts.IsZero() {
			if !ts.Before(w.End) {
				// Published after the window closed; belongs to the next
				// edition. Keep walking, older items may still qualify.
				continue
			}
			if ts.Before(w.Start) {
				break
			}
		}

		kept = append(kept, item)
		if len(kept) >= maxItems {
			break
		}
	}

	return kept
}
