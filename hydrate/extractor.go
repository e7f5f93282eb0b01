package hydrate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"edition-builder/config"
	"edition-builder/domain"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// ReadabilityExtractor fetches a page and extracts its readable text.
// Anything other than a 200 text/html response counts as "no content".
type ReadabilityExtractor struct {
	client *http.Client
}

func NewReadabilityExtractor(cfg config.HydrateConfig) *ReadabilityExtractor {
	return &ReadabilityExtractor{
		client: &http.Client{Timeout: cfg.FetchTimeout},
	}
}

func (e *ReadabilityExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: bad url: %v", domain.ErrHydrationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHydrationFailed, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHydrationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d", domain.ErrHydrationFailed, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		return "", fmt.Errorf("%w: content-type %q", domain.ErrNotHTML, contentType)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHydrationFailed, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text != "" {
		return text, nil
	}

	// Readability found no article node; fall back to bare paragraph text.
	return e.paragraphFallback(article.Content)
}

func (e *ReadabilityExtractor) paragraphFallback(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHydrationFailed, err)
	}

	var parts []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})

	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no readable text", domain.ErrHydrationFailed)
	}

	return strings.Join(parts, "\n\n"), nil
}
