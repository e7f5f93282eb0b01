package synthesize

import (
	"regexp"
	"strings"
	"time"

	"edition-builder/domain"
)

var (
	headingRe  = regexp.MustCompile(`(?i)^\s*(?:#{1,4}\s*)?(synthesis|analysis|key[ -]?points|watch[ -]?points|curiosities|positives|timeline)\s*[:：]?\s*$`)
	timelineRe = regexp.MustCompile(`^\s*[-*]?\s*(\d{4}-\d{2}-\d{2})\s*[:\-]\s*(.+)$`)
)

// headingSection maps a matched heading token to its canonical section
// name, or "timeline" for the timeline block.
func headingSection(token string) string {
	switch strings.ReplaceAll(strings.ToLower(token), " ", "-") {
	case "synthesis":
		return domain.SectionSynthesis
	case "analysis":
		return domain.SectionAnalysis
	case "key-points", "keypoints":
		return domain.SectionKeyPoints
	case "watch-points", "watchpoints":
		return domain.SectionWatchPoints
	case "curiosities":
		return domain.SectionCuriosities
	case "positives":
		return domain.SectionPositives
	case "timeline":
		return "timeline"
	}
	return ""
}

// parseDraft splits a raw response into the six named sections plus the
// timeline. Text before the first recognized heading is folded into the
// synthesis section. Returns false when no heading was recognized at
// all, meaning the response cannot be treated as a structured draft.
func parseDraft(raw string) (*domain.BriefingDraft, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, false
	}

	draft := &domain.BriefingDraft{}
	current := ""
	recognized := false
	var body []string
	var preamble []string

	flush := func() {
		joined := strings.TrimSpace(strings.Join(body, "\n"))
		body = body[:0]
		if joined == "" {
			return
		}
		if current == "timeline" {
			draft.Timeline = append(draft.Timeline, parseTimeline(joined)...)
			return
		}
		draft.SetSection(current, joined)
	}

	for _, line := range strings.Split(text, "\n") {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			if section := headingSection(m[1]); section != "" {
				if current != "" {
					flush()
				}
				current = section
				recognized = true
				continue
			}
		}

		if current == "" {
			preamble = append(preamble, line)
			continue
		}
		body = append(body, line)
	}
	if current != "" {
		flush()
	}

	if !recognized {
		return nil, false
	}

	if draft.Synthesis == "" {
		if p := strings.TrimSpace(strings.Join(preamble, "\n")); p != "" {
			draft.Synthesis = p
		}
	}

	finalize(draft)
	return draft, true
}

func parseTimeline(block string) []domain.TimelineEntry {
	var entries []domain.TimelineEntry
	for _, line := range strings.Split(block, "\n") {
		m := timelineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		when, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			continue
		}
		entries = append(entries, domain.TimelineEntry{
			When: when,
			Text: strings.TrimSpace(m[2]),
		})
	}
	return entries
}

// finalize computes the derived word count and reading time. Reading
// speed is fixed at 200 words per minute.
func finalize(draft *domain.BriefingDraft) {
	words := 0
	for _, section := range draft.Sections() {
		words += len(strings.Fields(section.Body))
	}
	for _, entry := range draft.Timeline {
		words += len(strings.Fields(entry.Text))
	}

	draft.WordCount = words
	draft.ReadingMinutes = (words + 199) / 200
	if draft.ReadingMinutes < 1 {
		draft.ReadingMinutes = 1
	}
}
