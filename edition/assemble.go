// ABOUTME: Deterministic ordering and final assembly of an edition
// ABOUTME: Reorder is pure; two runs over the same inputs produce identical editions
package edition

import (
	"sort"
	"time"

	"edition-builder/domain"

	"github.com/google/uuid"
)

// Reorder returns the items stably sorted by their ingestion position,
// erasing whatever completion order the concurrent stages produced.
func Reorder(items []domain.NarrativeItem) []domain.NarrativeItem {
	out := make([]domain.NarrativeItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// Assemble builds the terminal edition artifact from an accepted draft.
func Assemble(date time.Time, draft *domain.BriefingDraft, items []domain.NarrativeItem, warnings []string) *domain.Edition {
	return &domain.Edition{
		Date: date,
		Frontmatter: domain.Frontmatter{
			Date:           date.Format("2006-01-02"),
			RunID:          uuid.NewString(),
			Sources:        sourceNames(items),
			ItemCount:      len(items),
			WordCount:      draft.WordCount,
			ReadingMinutes: draft.ReadingMinutes,
			GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		},
		Draft:    *draft,
		Items:    items,
		Warnings: warnings,
	}
}

// sourceNames lists distinct feed names in first-appearance order.
func sourceNames(items []domain.NarrativeItem) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, item := range items {
		if _, ok := seen[item.Feed]; ok {
			continue
		}
		seen[item.Feed] = struct{}{}
		names = append(names, item.Feed)
	}
	return names
}
