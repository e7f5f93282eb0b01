// ABOUTME: Theme extraction for fallback synthesis
// ABOUTME: Scoring is a pluggable strategy so tuning never touches orchestration
package synthesize

import (
	"sort"
	"strings"

	"edition-builder/domain"
)

// Theme is one recurring topic across the day's items.
type Theme struct {
	Term    string
	Score   float64
	ItemIdx []int
}

// ThemeScorer ranks recurring topics in a corpus of items. Returned
// themes are ordered best-first.
type ThemeScorer interface {
	Score(items []domain.NarrativeItem) []Theme
}

// DiversityScorer ranks terms by occurrence count weighted by how many
// distinct feeds mention them. A term three feeds report beats a term
// one feed repeats three times.
type DiversityScorer struct {
	MaxThemes int
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "with": {}, "this": {},
	"from": {}, "have": {}, "has": {}, "was": {}, "were": {}, "are": {},
	"will": {}, "been": {}, "its": {}, "his": {}, "her": {}, "their": {},
	"they": {}, "but": {}, "not": {}, "can": {}, "more": {}, "after": {},
	"over": {}, "into": {}, "about": {}, "than": {}, "also": {}, "when": {},
	"which": {}, "what": {}, "who": {}, "how": {}, "why": {}, "all": {},
	"new": {}, "said": {}, "says": {}, "year": {}, "years": {}, "would": {},
	"could": {}, "other": {}, "some": {}, "one": {}, "two": {}, "first": {},
}

type termStat struct {
	count int
	feeds map[string]struct{}
	items map[int]struct{}
}

func (s DiversityScorer) Score(items []domain.NarrativeItem) []Theme {
	stats := map[string]*termStat{}

	for idx, item := range items {
		text := item.Title + " " + item.Summary.Abstract + " " + strings.Join(item.Summary.Bullets, " ")
		for _, field := range strings.Fields(strings.ToLower(text)) {
			term := strings.Trim(field, `.,;:!?"'()[]`)
			if len(term) < 4 {
				continue
			}
			if _, stop := stopwords[term]; stop {
				continue
			}

			stat, ok := stats[term]
			if !ok {
				stat = &termStat{feeds: map[string]struct{}{}, items: map[int]struct{}{}}
				stats[term] = stat
			}
			stat.count++
			stat.feeds[item.Feed] = struct{}{}
			stat.items[idx] = struct{}{}
		}
	}

	themes := make([]Theme, 0, len(stats))
	for term, stat := range stats {
		themes = append(themes, Theme{
			Term:    term,
			Score:   float64(stat.count) * float64(len(stat.feeds)),
			ItemIdx: sortedKeys(stat.items),
		})
	}

	sort.Slice(themes, func(i, j int) bool {
		if themes[i].Score != themes[j].Score {
			return themes[i].Score > themes[j].Score
		}
		return themes[i].Term < themes[j].Term
	})

	return dedupeOverlapping(themes, s.maxThemes())
}

func (s DiversityScorer) maxThemes() int {
	if s.MaxThemes > 0 {
		return s.MaxThemes
	}
	return 5
}

// dedupeOverlapping keeps top themes whose item sets are not fully
// contained in an already-kept theme, so the selection spans the corpus
// instead of restating one hot story five ways.
func dedupeOverlapping(themes []Theme, limit int) []Theme {
	var kept []Theme
	for _, theme := range themes {
		if len(kept) >= limit {
			break
		}
		contained := false
		for _, k := range kept {
			if subset(theme.ItemIdx, k.ItemIdx) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, theme)
		}
	}
	return kept
}

func subset(a, b []int) bool {
	set := map[int]struct{}{}
	for _, v := range b {
		set[v] = struct{}{}
	}
	for _, v := range a {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
