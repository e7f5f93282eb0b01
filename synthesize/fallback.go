package synthesize

import (
	"fmt"
	"sort"
	"strings"

	"edition-builder/domain"
)

// ComposeFallback builds a briefing deterministically from the items
// themselves, without the generation service. Same items, same draft.
func ComposeFallback(items []domain.NarrativeItem, scorer ThemeScorer) *domain.BriefingDraft {
	themes := scorer.Score(items)
	draft := &domain.BriefingDraft{
		Synthesis:   composeSynthesis(items, themes),
		Analysis:    composeAnalysis(items, themes),
		KeyPoints:   composeKeyPoints(items),
		WatchPoints: composeWatchPoints(items, themes),
		Curiosities: composeCuriosities(items),
		Positives:   composePositives(items),
		Timeline:    composeTimeline(items),
	}

	finalize(draft)
	return draft
}

func composeSynthesis(items []domain.NarrativeItem, themes []Theme) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Today's briefing draws on %d items from %d sources.", len(items), countFeeds(items))
	if len(themes) > 0 {
		terms := make([]string, 0, len(themes))
		for _, theme := range themes {
			terms = append(terms, theme.Term)
		}
		fmt.Fprintf(&b, " Recurring topics: %s.", strings.Join(terms, ", "))
	}

	for i, item := range items {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, " %s [%d].", item.Summary.Abstract, i+1)
	}

	return b.String()
}

func composeAnalysis(items []domain.NarrativeItem, themes []Theme) string {
	var b strings.Builder

	for _, theme := range themes {
		fmt.Fprintf(&b, "Several items touch on %q:", theme.Term)
		for _, idx := range theme.ItemIdx {
			if idx < len(items) {
				fmt.Fprintf(&b, " %s [%d].", items[idx].Title, idx+1)
			}
		}
		b.WriteString("\n\n")
	}

	if b.Len() == 0 {
		for i, item := range items {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "%s: %s [%d]. ", item.Feed, item.Summary.Abstract, i+1)
		}
	}

	return strings.TrimSpace(b.String())
}

func composeKeyPoints(items []domain.NarrativeItem) string {
	var lines []string
	for i, item := range items {
		for _, bullet := range item.Summary.Bullets {
			lines = append(lines, fmt.Sprintf("- %s [%d]", bullet, i+1))
			break
		}
	}
	return strings.Join(lines, "\n")
}

func composeWatchPoints(items []domain.NarrativeItem, themes []Theme) string {
	var lines []string
	for _, theme := range themes {
		lines = append(lines, fmt.Sprintf("- Developments around %q span %d items and may continue.", theme.Term, len(theme.ItemIdx)))
	}
	if len(lines) == 0 {
		for i, item := range items {
			if i >= 3 {
				break
			}
			lines = append(lines, fmt.Sprintf("- Follow-up expected on: %s [%d]", item.Title, i+1))
		}
	}
	return strings.Join(lines, "\n")
}

func composeCuriosities(items []domain.NarrativeItem) string {
	// The least-covered feeds carry the items a reader is least likely
	// to have seen elsewhere.
	byFeed := map[string]int{}
	for _, item := range items {
		byFeed[item.Feed]++
	}

	type candidate struct {
		idx    int
		weight int
	}
	candidates := make([]candidate, 0, len(items))
	for i, item := range items {
		candidates = append(candidates, candidate{idx: i, weight: byFeed[item.Feed]})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].weight < candidates[j].weight })

	var lines []string
	for _, c := range candidates {
		if len(lines) >= 3 {
			break
		}
		item := items[c.idx]
		lines = append(lines, fmt.Sprintf("- %s (%s) [%d]", item.Title, item.Feed, c.idx+1))
	}
	return strings.Join(lines, "\n")
}

func composePositives(items []domain.NarrativeItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "All %d items were collected and summarized.", len(items))

	fallbacks := 0
	for _, item := range items {
		if item.Summary.Provenance == domain.ProvenanceFallback {
			fallbacks++
		}
	}
	if fallbacks == 0 {
		b.WriteString(" Every summary was produced at full quality.")
	} else {
		fmt.Fprintf(&b, " %d of them used extractive fallback summaries.", fallbacks)
	}

	return b.String()
}

func composeTimeline(items []domain.NarrativeItem) []domain.TimelineEntry {
	var entries []domain.TimelineEntry
	for _, item := range items {
		if item.PublishedAt.IsZero() {
			continue
		}
		entries = append(entries, domain.TimelineEntry{
			When:  item.PublishedAt,
			Label: item.Feed,
			Text:  item.Title,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].When.Before(entries[j].When) })
	return entries
}

func countFeeds(items []domain.NarrativeItem) int {
	feeds := map[string]struct{}{}
	for _, item := range items {
		feeds[item.Feed] = struct{}{}
	}
	return len(feeds)
}
