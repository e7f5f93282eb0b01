package ingest

import (
	"fmt"
	"testing"
	"time"

	"edition-builder/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindow() Window {
	end := time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)
	return Window{Start: end.Add(-24 * time.Hour), End: end}
}

func item(url string, published time.Time) domain.CandidateItem {
	return domain.CandidateItem{Title: url, URL: url, PublishedAt: published}
}

func TestWindowFor(t *testing.T) {
	date := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)
	w := WindowFor(date, 7)

	assert.Equal(t, time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, time.Date(2026, 8, 30, 7, 0, 0, 0, time.UTC), w.Start)
}

func TestWindow_Contains(t *testing.T) {
	w := testWindow()

	tests := map[string]struct {
		published time.Time
		want      bool
	}{
		"inside window":        {published: w.Start.Add(time.Hour), want: true},
		"exactly at start":     {published: w.Start, want: true},
		"exactly at end":       {published: w.End, want: false},
		"before window":        {published: w.Start.Add(-time.Minute), want: false},
		"after window":         {published: w.End.Add(time.Minute), want: false},
		"unparsable timestamp": {published: time.Time{}, want: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, w.Contains(tc.published))
		})
	}
}

func TestFilterFresh_WindowCorrectness(t *testing.T) {
	w := testWindow()

	items := []domain.CandidateItem{
		item("too-new", w.End.Add(time.Hour)),
		item("fresh-1", w.End.Add(-time.Hour)),
		item("fresh-2", w.Start.Add(time.Hour)),
		item("too-old", w.Start.Add(-time.Hour)),
		item("ancient", w.Start.Add(-48*time.Hour)),
	}

	kept := FilterFresh(items, w, 10)

	require.Len(t, kept, 2)
	assert.Equal(t, "fresh-1", kept[0].URL)
	assert.Equal(t, "fresh-2", kept[1].URL)
}

func TestFilterFresh_UnsortedInput(t *testing.T) {
	w := testWindow()

	// Deliberately shuffled: the filter must sort before walking.
	items := []domain.CandidateItem{
		item("too-old", w.Start.Add(-time.Hour)),
		item("fresh-2", w.Start.Add(2*time.Hour)),
		item("fresh-1", w.End.Add(-time.Minute)),
	}

	kept := FilterFresh(items, w, 10)

	require.Len(t, kept, 2)
	assert.Equal(t, "fresh-1", kept[0].URL)
	assert.Equal(t, "fresh-2", kept[1].URL)
}

func TestFilterFresh_ZeroTimestampAlwaysFresh(t *testing.T) {
	w := testWindow()

	items := []domain.CandidateItem{
		item("dated", w.Start.Add(time.Hour)),
		item("undated", time.Time{}),
	}

	kept := FilterFresh(items, w, 10)

	require.Len(t, kept, 2)
	// Undated items sort newest.
	assert.Equal(t, "undated", kept[0].URL)
}

func TestFilterFresh_PerFeedCap(t *testing.T) {
	w := testWindow()

	var items []domain.CandidateItem
	for i := 0; i < 20; i++ {
		items = append(items, item(
			fmt.Sprintf("item-%d", i),
			w.End.Add(-time.Duration(i+1)*time.Minute),
		))
	}

	kept := FilterFresh(items, w, 5)

	require.Len(t, kept, 5)
	// Newest items win the cap.
	assert.Equal(t, "item-0", kept[0].URL)
	assert.Equal(t, "item-4", kept[4].URL)
}

func TestFilterFresh_Empty(t *testing.T) {
	assert.Empty(t, FilterFresh(nil, testWindow(), 5))
}
