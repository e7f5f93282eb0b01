package hydrate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"edition-builder/config"
	"edition-builder/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>An Article</title></head>
<body>
<article>
<h1>An Article</h1>
<p>The first paragraph of this article carries enough prose to be treated
as real content by the extractor, describing events in reasonable detail
so that the readable-text heuristics have something to hold on to.</p>
<p>The second paragraph continues the story with further context and a
closing remark about what might happen next week.</p>
</article>
</body>
</html>`

func testExtractor(timeout time.Duration) *ReadabilityExtractor {
	return NewReadabilityExtractor(config.HydrateConfig{FetchTimeout: timeout})
}

func TestReadabilityExtractor_ExtractsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	text, err := testExtractor(5*time.Second).Extract(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "first paragraph")
	assert.Contains(t, text, "next week")
	assert.False(t, strings.Contains(text, "<p>"), "markup must be stripped")
}

func TestReadabilityExtractor_NonHTMLIsNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	_, err := testExtractor(5*time.Second).Extract(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotHTML)
}

func TestReadabilityExtractor_Non200IsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := testExtractor(5*time.Second).Extract(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHydrationFailed)
}

func TestReadabilityExtractor_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	_, err := testExtractor(20*time.Millisecond).Extract(context.Background(), server.URL)
	assert.Error(t, err)
}
