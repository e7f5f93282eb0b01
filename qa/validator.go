// ABOUTME: Pure quality gate for briefing drafts
// ABOUTME: Separates blocking structural defects from surfaced warnings
package qa

import (
	"fmt"
	"regexp"
	"strings"

	"edition-builder/config"
	"edition-builder/domain"
	"edition-builder/summarize"
)

var citationRe = regexp.MustCompile(`\[(\d{1,3})\]`)

// Validate runs every check against a draft and returns the full report.
// Pure: no I/O, no state, same draft and thresholds give the same report.
func Validate(draft *domain.BriefingDraft, cfg config.QAConfig) domain.QAReport {
	var report domain.QAReport

	for _, section := range draft.Sections() {
		words := len(strings.Fields(section.Body))
		if words < cfg.SectionWordMin {
			report.Errors = append(report.Errors,
				fmt.Sprintf("section %s has %d words, below minimum %d", section.Name, words, cfg.SectionWordMin))
		}
		if words > cfg.SectionWordMax {
			report.Errors = append(report.Errors,
				fmt.Sprintf("section %s has %d words, above maximum %d", section.Name, words, cfg.SectionWordMax))
		}

		if paragraphs := countParagraphs(section.Body); paragraphs < cfg.MinParagraphs {
			report.Errors = append(report.Errors,
				fmt.Sprintf("section %s has %d paragraphs, below minimum %d", section.Name, paragraphs, cfg.MinParagraphs))
		}

		if dup := duplicateSentence(section.Body); dup != "" {
			report.Errors = append(report.Errors,
				fmt.Sprintf("section %s repeats a sentence: %q", section.Name, truncate(dup, 60)))
		}
	}

	checkCitations(draft, cfg, &report)

	if overlap := Overlap(draft.Synthesis, draft.Analysis); overlap > cfg.MaxSectionOverlap {
		report.Errors = append(report.Errors,
			fmt.Sprintf("synthesis and analysis overlap %.2f exceeds maximum %.2f", overlap, cfg.MaxSectionOverlap))
	}

	return report
}

// checkCitations counts [n] markers across the synthesis and analysis
// sections, the two that must ground claims in sources. Density below
// the floor is blocking only when configured so.
func checkCitations(draft *domain.BriefingDraft, cfg config.QAConfig, report *domain.QAReport) {
	cited := draft.Synthesis + "\n" + draft.Analysis

	matches := citationRe.FindAllStringSubmatch(cited, -1)
	if len(matches) < cfg.MinCitations {
		msg := fmt.Sprintf("found %d citations, below minimum %d", len(matches), cfg.MinCitations)
		if cfg.CitationsBlocking {
			report.Errors = append(report.Errors, msg)
		} else {
			report.Warnings = append(report.Warnings, msg)
		}
		return
	}

	distinct := map[string]struct{}{}
	for _, m := range matches {
		distinct[m[1]] = struct{}{}
	}
	if len(distinct) < cfg.MinCitationSources {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("citations reference %d distinct sources, below minimum %d", len(distinct), cfg.MinCitationSources))
	}
}

// Overlap is the Jaccard similarity of two sections' lowercased token
// sets. Empty sections overlap zero.
func Overlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, field := range strings.Fields(strings.ToLower(text)) {
		token := strings.Trim(field, `.,;:!?"'()[]`)
		if len(token) >= 3 {
			set[token] = struct{}{}
		}
	}
	return set
}

func countParagraphs(body string) int {
	count := 0
	for _, block := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

// duplicateSentence returns the first sentence that appears twice in the
// body, ignoring case and surrounding whitespace. Short fragments are
// skipped; they repeat legitimately.
func duplicateSentence(body string) string {
	seen := map[string]string{}
	for _, sentence := range summarize.SplitSentences(body) {
		if len(strings.Fields(sentence)) < 5 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(sentence))
		if _, ok := seen[key]; ok {
			return sentence
		}
		seen[key] = sentence
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
