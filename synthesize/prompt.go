package synthesize

import (
	"fmt"
	"strings"

	"edition-builder/domain"
)

const maxItemsInPrompt = 40

const briefingPromptHeader = `You are writing a daily briefing from the numbered source items below.
Cite items inline as [n] where n is the item number.
Respond with exactly these markdown sections, each under its own "## " heading:

## Synthesis
## Analysis
## Key Points
## Watch Points
## Curiosities
## Positives
## Timeline

The Timeline section is a bullet list of "- YYYY-MM-DD: event" lines.
Every other section is prose of at least two full paragraphs.

Source items:
`

// buildPrompt renders the numbered item digest the [n] citations
// resolve against. Item numbers are 1-based positions in the final
// ordered list.
func buildPrompt(items []domain.NarrativeItem) string {
	var b strings.Builder
	b.WriteString(briefingPromptHeader)

	for i, item := range items {
		if i >= maxItemsInPrompt {
			break
		}
		fmt.Fprintf(&b, "\n[%d] %s (%s)\n%s\n", i+1, item.Title, item.Feed, item.Summary.Abstract)
		for _, bullet := range item.Summary.Bullets {
			fmt.Fprintf(&b, "  - %s\n", bullet)
		}
	}

	return b.String()
}

// buildReinforcedPrompt names the previous draft's blocking violations
// so the next attempt can correct them directly.
func buildReinforcedPrompt(items []domain.NarrativeItem, violations []string) string {
	var b strings.Builder
	b.WriteString("Your previous draft was rejected for these reasons:\n")
	for _, v := range violations {
		fmt.Fprintf(&b, "- %s\n", v)
	}
	b.WriteString("Rewrite the briefing fixing every listed problem.\n\n")
	b.WriteString(buildPrompt(items))
	return b.String()
}
