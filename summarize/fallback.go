package summarize

import (
	"fmt"
	"net/url"
	"strings"

	"edition-builder/domain"
)

// Fallback builds a deterministic extractive summary from the story's
// own title, URL, and text. Every story ends with a SummaryResult; this
// is the terminal state once generation attempts are exhausted.
func Fallback(story *domain.PendingStory) domain.SummaryResult {
	sentences := SplitSentences(story.Text)

	abstract := story.Item.Title
	if len(sentences) > 0 {
		abstract = strings.Join(sentences[:min(2, len(sentences))], " ")
	}
	if abstract == "" {
		abstract = "No summary available."
	}

	bullets := make([]string, 0, 3)
	if story.Item.Title != "" {
		bullets = append(bullets, story.Item.Title)
	}
	if host := hostOf(story.Item.URL); host != "" {
		bullets = append(bullets, fmt.Sprintf("Reported by %s (%s)", story.Feed.Name, host))
	} else if story.Feed.Name != "" {
		bullets = append(bullets, fmt.Sprintf("Reported by %s", story.Feed.Name))
	}
	for _, sentence := range sentences {
		if len(bullets) >= 3 {
			break
		}
		bullets = append(bullets, sentence)
	}
	if !story.Item.PublishedAt.IsZero() && len(bullets) < 3 {
		bullets = append(bullets, "Published "+story.Item.PublishedAt.Format("2006-01-02 15:04 MST"))
	}
	for len(bullets) < 3 {
		if story.Item.URL != "" {
			bullets = append(bullets, story.Item.URL)
			continue
		}
		bullets = append(bullets, "No further details available.")
	}

	return domain.SummaryResult{
		Abstract:   abstract,
		Bullets:    bullets[:3],
		Provenance: domain.ProvenanceFallback,
	}
}

func hostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
