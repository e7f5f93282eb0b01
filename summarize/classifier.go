// ABOUTME: Pure classifier for text-generation responses to summary requests
// ABOUTME: Decomposes free text into an abstract plus exactly three bullets, or says why not
package summarize

import (
	"regexp"
	"strings"
)

// OutcomeKind tags the three-way classification of a raw response.
type OutcomeKind int

const (
	// OutcomeSuccess means an abstract and three bullets were recovered.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeRefusal means the response matches known refusal phrasing.
	OutcomeRefusal
	// OutcomeParseFailure means no usable structure could be recovered.
	OutcomeParseFailure
)

// Outcome is the classified form of one generation response.
type Outcome struct {
	Kind            OutcomeKind
	Abstract        string
	Bullets         []string
	TranslatedTitle string
	Reason          string
}

var refusalPatterns = []string{
	"i cannot",
	"i can't",
	"i can not",
	"i'm sorry",
	"i am sorry",
	"i am unable",
	"i'm unable",
	"as an ai",
	"i won't be able",
	"cannot assist with",
	"can't help with",
}

var (
	bulletMarkerRe = regexp.MustCompile(`^\s*(?:[-*•‣]|\d{1,2}[.)])\s+(.+)$`)
	abstractRe     = regexp.MustCompile(`(?i)^\s*abstract\s*[:：]\s*(.*)$`)
	titleRe        = regexp.MustCompile(`(?i)^\s*title\s*[:：]\s*(.+)$`)
	sentenceEndRe  = regexp.MustCompile(`[.!?。]["')\]]?(\s+|$)`)
)

// Classify decomposes a raw response. Pure: same input, same outcome.
// The parser accepts dash/star/dot bullet markers, numbered lists,
// semicolon-separated fallbacks, and synthesizes bullets from sentence
// segmentation, so three non-empty bullets come out of any usable text.
func Classify(raw string) Outcome {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Outcome{Kind: OutcomeParseFailure, Reason: "empty response"}
	}

	if isRefusal(text) {
		return Outcome{Kind: OutcomeRefusal, Reason: "refusal phrasing detected"}
	}

	var (
		bullets  []string
		prose    []string
		abstract string
		title    string
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := titleRe.FindStringSubmatch(line); m != nil {
			title = strings.TrimSpace(m[1])
			continue
		}
		if m := abstractRe.FindStringSubmatch(line); m != nil {
			if a := strings.TrimSpace(m[1]); a != "" {
				abstract = a
			}
			continue
		}
		if m := bulletMarkerRe.FindStringSubmatch(line); m != nil {
			if b := strings.TrimSpace(m[1]); b != "" {
				bullets = append(bullets, b)
			}
			continue
		}

		prose = append(prose, line)
	}

	if abstract == "" && len(prose) > 0 {
		// The first prose sentence becomes the abstract; the rest stays
		// available for bullet synthesis.
		sentences := SplitSentences(prose[0])
		if len(sentences) > 1 {
			abstract = sentences[0]
			prose = append([]string{strings.Join(sentences[1:], " ")}, prose[1:]...)
		} else {
			abstract = prose[0]
			prose = prose[1:]
		}
	}

	bullets = fillBullets(bullets, prose)

	if abstract == "" && len(bullets) > 0 {
		abstract = bullets[0]
	}

	if abstract == "" {
		return Outcome{Kind: OutcomeParseFailure, Reason: "no abstract line found"}
	}
	if len(bullets) < 3 {
		return Outcome{Kind: OutcomeParseFailure, Reason: "fewer than three bullets recovered"}
	}

	return Outcome{
		Kind:            OutcomeSuccess,
		Abstract:        abstract,
		Bullets:         bullets[:3],
		TranslatedTitle: title,
	}
}

func isRefusal(text string) bool {
	// Refusals announce themselves up front; only the opening matters.
	head := strings.ToLower(text)
	if len(head) > 200 {
		head = head[:200]
	}

	for _, pattern := range refusalPatterns {
		if strings.Contains(head, pattern) {
			return true
		}
	}
	return false
}

// fillBullets tops up the bullet list from weaker structure until three
// are available: semicolon clauses, then sentences, then word-splitting
// the longest bullet.
func fillBullets(bullets, prose []string) []string {
	if len(bullets) >= 3 {
		return bullets
	}

	rest := strings.Join(prose, " ")

	if rest != "" && strings.Contains(rest, ";") {
		for _, clause := range strings.Split(rest, ";") {
			if c := strings.TrimSpace(clause); c != "" {
				bullets = append(bullets, c)
			}
			if len(bullets) >= 3 {
				return bullets
			}
		}
		rest = ""
	}

	if len(bullets) < 3 && rest != "" {
		for _, sentence := range SplitSentences(rest) {
			bullets = append(bullets, sentence)
			if len(bullets) >= 3 {
				return bullets
			}
		}
	}

	for len(bullets) > 0 && len(bullets) < 3 {
		split := splitLongestBullet(bullets)
		if split == nil {
			break
		}
		bullets = split
	}

	return bullets
}

// splitLongestBullet halves the longest splittable bullet at a word
// boundary. Returns nil when nothing can be split further.
func splitLongestBullet(bullets []string) []string {
	longest, longestWords := -1, 0
	for i, b := range bullets {
		words := len(strings.Fields(b))
		if words >= 6 && words > longestWords {
			longest, longestWords = i, words
		}
	}
	if longest < 0 {
		return nil
	}

	words := strings.Fields(bullets[longest])
	mid := len(words) / 2
	first := strings.Join(words[:mid], " ")
	second := strings.Join(words[mid:], " ")

	out := make([]string, 0, len(bullets)+1)
	out = append(out, bullets[:longest]...)
	out = append(out, first, second)
	out = append(out, bullets[longest+1:]...)
	return out
}

// SplitSentences segments text on terminal punctuation. Used for bullet
// synthesis and for the extractive fallback.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	last := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
