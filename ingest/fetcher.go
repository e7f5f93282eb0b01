// Package ingest fetches the configured feeds concurrently, filters items
// to the edition's freshness window, and emits pending stories in
// configuration order.
package ingest

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"edition-builder/config"
	"edition-builder/domain"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// FeedFetcher retrieves the candidate items of a single feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, src domain.FeedSource) ([]domain.CandidateItem, error)
}

// HTTPFetcher fetches RSS/Atom documents over HTTP and parses them with
// gofeed. A shared rate limiter keeps the whole stage polite regardless
// of feed concurrency.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	stripper  *bluemonday.Policy
}

// NewHTTPFetcher creates a fetcher with the configured timeout and
// global requests-per-second budget.
func NewHTTPFetcher(cfg config.IngestConfig) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: cfg.FeedTimeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		userAgent: cfg.UserAgent,
		stripper:  bluemonday.StrictPolicy(),
	}
}

// Fetch retrieves and parses one feed. Any transport or parse problem is
// reported as a feed-unavailable error; the caller decides feed fate.
func (f *HTTPFetcher) Fetch(ctx context.Context, src domain.FeedSource) ([]domain.CandidateItem, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFeedUnavailable, src.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFeedUnavailable, src.Name, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFeedUnavailable, src.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: HTTP %d", domain.ErrFeedUnavailable, src.Name, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFeedUnavailable, src.Name, err)
	}

	items := make([]domain.CandidateItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		items = append(items, f.convertEntry(entry))
	}

	return items, nil
}

func (f *HTTPFetcher) convertEntry(entry *gofeed.Item) domain.CandidateItem {
	link := entry.Link
	if link == "" {
		link = entry.GUID
	}

	var published time.Time
	if entry.PublishedParsed != nil {
		published = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		published = *entry.UpdatedParsed
	}
	// Items without a parsable timestamp keep the zero value and are
	// treated as always fresh downstream.

	content := entry.Content
	if content == "" {
		content = entry.Description
	}

	return domain.CandidateItem{
		Title:       strings.TrimSpace(entry.Title),
		URL:         link,
		PublishedAt: published,
		RawContent:  f.stripHTML(content),
	}
}

// stripHTML removes markup from embedded feed content so length checks
// and prompts operate on plain text.
func (f *HTTPFetcher) stripHTML(content string) string {
	stripped := f.stripper.Sanitize(content)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
