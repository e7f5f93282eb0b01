package summarize

import (
	"fmt"

	"edition-builder/domain"
)

// maxPromptChars bounds the story text included in a prompt so oversized
// articles cannot blow the model's context window.
const maxPromptChars = 8000

const summaryPromptTemplate = `You are a news desk editor. Summarize the article below for a daily briefing.

Respond in exactly this format, nothing else:
ABSTRACT: one tight paragraph with the key facts.
- first key point
- second key point
- third key point
TITLE: the article title, translated if it is not already in English.

SOURCE: %s
HEADLINE: %s
ARTICLE:
---
%s
---`

func buildPrompt(story *domain.PendingStory) string {
	text := story.Text
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	return fmt.Sprintf(summaryPromptTemplate, story.Feed.Name, story.Item.Title, text)
}
