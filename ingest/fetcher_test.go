package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edition-builder/config"
	"edition-builder/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Sample</title>
    <item>
      <title>First story</title>
      <link>https://news.example.com/first</link>
      <pubDate>Mon, 31 Aug 2026 05:00:00 GMT</pubDate>
      <description><![CDATA[<p>Plain <b>text</b> inside &amp; markup</p>]]></description>
    </item>
    <item>
      <title>No timestamp</title>
      <link>https://news.example.com/second</link>
      <description>Short note</description>
    </item>
  </channel>
</rss>`

func fetcherConfig(timeout time.Duration) config.IngestConfig {
	return config.IngestConfig{
		FeedTimeout:       timeout,
		RequestsPerSecond: 100,
		UserAgent:         "edition-builder-test",
	}
}

func TestHTTPFetcher_ParsesFeed(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(fetcherConfig(5 * time.Second))

	items, err := fetcher.Fetch(context.Background(), domain.FeedSource{Name: "sample", URL: server.URL})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "edition-builder-test", gotUA)

	first := items[0]
	assert.Equal(t, "First story", first.Title)
	assert.Equal(t, "https://news.example.com/first", first.URL)
	assert.Equal(t, 2026, first.PublishedAt.Year())
	// Markup stripped, entities decoded.
	assert.Equal(t, "Plain text inside & markup", first.RawContent)

	second := items[1]
	assert.True(t, second.PublishedAt.IsZero(), "missing pubDate must yield zero time")
	assert.Equal(t, "Short note", second.RawContent)
}

func TestHTTPFetcher_HTTPErrorIsFeedUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(fetcherConfig(5 * time.Second))

	_, err := fetcher.Fetch(context.Background(), domain.FeedSource{Name: "sample", URL: server.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
}

func TestHTTPFetcher_MalformedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(fetcherConfig(5 * time.Second))

	_, err := fetcher.Fetch(context.Background(), domain.FeedSource{Name: "sample", URL: server.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(fetcherConfig(20 * time.Millisecond))

	_, err := fetcher.Fetch(context.Background(), domain.FeedSource{Name: "slow", URL: server.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
}
