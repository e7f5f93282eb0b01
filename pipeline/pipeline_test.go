package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"edition-builder/config"
	"edition-builder/domain"
	"edition-builder/edition"
	"edition-builder/metrics"
	"edition-builder/seenset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

type stubFetcher struct {
	itemsPerFeed int
	base         time.Time
}

func (f *stubFetcher) Fetch(ctx context.Context, feed domain.FeedSource) ([]domain.CandidateItem, error) {
	base := f.base
	if base.IsZero() {
		base = testDate
	}
	items := make([]domain.CandidateItem, f.itemsPerFeed)
	for i := range items {
		items[i] = domain.CandidateItem{
			Title:       fmt.Sprintf("%s story %d", feed.Name, i+1),
			URL:         fmt.Sprintf("https://%s.example/%d", feed.Name, i+1),
			PublishedAt: base.Add(time.Duration(6-i) * time.Hour),
			RawContent:  "Short embedded content.",
		}
	}
	return items, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	return "Hydrated sentence one for the story. Hydrated sentence two with more detail. Hydrated sentence three closing it out.", nil
}

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "## Synthesis") {
		return briefing(), nil
	}
	return "ABSTRACT: A concise abstract of the story.\n- First detail.\n- Second detail.\n- Third detail.", nil
}

func briefing() string {
	var b strings.Builder
	for i, heading := range []string{"Synthesis", "Analysis", "Key Points", "Watch Points", "Curiosities", "Positives"} {
		fmt.Fprintf(&b, "## %s\n", heading)
		for w := 0; w < 60; w++ {
			fmt.Fprintf(&b, "s%dw%02d ", i, w)
		}
		if heading == "Synthesis" {
			b.WriteString("Grounded in the first item [1] and the second [2].")
		}
		b.WriteString("\n\n")
	}
	b.WriteString("## Timeline\n- 2026-08-30: Something happened\n")
	return b.String()
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Ingest.CutoffHour = 7
	cfg.Summarize.BaseDelay = time.Millisecond
	cfg.Summarize.MaxDelay = 2 * time.Millisecond
	cfg.Edition.OutputDir = dir
	cfg.Edition.SeenSetFile = filepath.Join(dir, ".seen")
	return cfg
}

func testDeps(t *testing.T, cfg *config.Config, fetcher *stubFetcher) Deps {
	t.Helper()

	seen, err := seenset.Load(cfg.Edition.SeenSetFile)
	require.NoError(t, err)

	return Deps{
		Fetcher:    fetcher,
		Extractor:  stubExtractor{},
		Generator:  stubGenerator{},
		Store:      edition.NewStore(cfg.Edition.OutputDir),
		Seen:       seen,
		Aggregator: metrics.NewAggregator("test-run"),
		Logger:     slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})),
	}
}

func feeds() []domain.FeedSource {
	return []domain.FeedSource{
		{Name: "alpha", URL: "https://alpha.example/feed"},
		{Name: "bravo", URL: "https://bravo.example/feed"},
		{Name: "charlie", URL: "https://charlie.example/feed"},
	}
}

func TestRun_WritesEdition(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	deps := testDeps(t, cfg, &stubFetcher{itemsPerFeed: 2})

	err := Run(context.Background(), cfg, feeds(), testDate, false, deps)

	require.NoError(t, err)
	assert.True(t, deps.Store.Exists(testDate))

	content, readErr := os.ReadFile(deps.Store.Path(testDate))
	require.NoError(t, readErr)
	text := string(content)
	assert.Contains(t, text, "## Synthesis")
	assert.Contains(t, text, "alpha story 1")

	// Six stories in configuration order, each marked seen.
	assert.Equal(t, 6, deps.Seen.Len())
	sourcesIdx := strings.Index(text, "## Sources")
	require.Positive(t, sourcesIdx)
	alphaIdx := strings.Index(text[sourcesIdx:], "alpha story 1")
	charlieIdx := strings.Index(text[sourcesIdx:], "charlie story 2")
	assert.Less(t, alphaIdx, charlieIdx)
}

func TestRun_SeenSetPersistedAndHonored(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	deps := testDeps(t, cfg, &stubFetcher{itemsPerFeed: 2})

	require.NoError(t, Run(context.Background(), cfg, feeds(), testDate, false, deps))

	saved, err := os.ReadFile(cfg.Edition.SeenSetFile)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(string(saved)), 6)
}

func TestRun_InsufficientContentAborts(t *testing.T) {
	// Example: 2 fresh items total, floor of 3, no prior edition.
	dir := t.TempDir()
	cfg := testConfig(dir)
	deps := testDeps(t, cfg, &stubFetcher{itemsPerFeed: 0})
	deps.Fetcher = &singleFeedFetcher{}

	err := Run(context.Background(), cfg, feeds()[:1], testDate, false, deps)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientContent)
	assert.False(t, deps.Store.Exists(testDate), "no file may be written on abort")

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRun_InsufficientContentWithPriorEditionStands(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	prior := testDate.AddDate(0, 0, -2)
	deps := testDeps(t, cfg, &stubFetcher{itemsPerFeed: 2, base: prior})

	require.NoError(t, Run(context.Background(), cfg, feeds(), prior, false, deps))

	deps.Fetcher = &singleFeedFetcher{}
	err := Run(context.Background(), cfg, feeds()[:1], testDate, false, deps)

	require.NoError(t, err)
	assert.False(t, deps.Store.Exists(testDate))
	assert.True(t, deps.Store.Exists(prior))
}

func TestRun_ExistingEditionImpliesForce(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	deps := testDeps(t, cfg, &stubFetcher{itemsPerFeed: 2})

	require.NoError(t, Run(context.Background(), cfg, feeds(), testDate, false, deps))
	require.Equal(t, 6, deps.Seen.Len())

	// All six URLs are now in the seen-set. A second non-forced run for
	// the same date must still find its items because the existing
	// edition file implies regeneration.
	err := Run(context.Background(), cfg, feeds(), testDate, false, deps)

	require.NoError(t, err)
	assert.True(t, deps.Store.Exists(testDate))
}

// singleFeedFetcher yields two fresh items, below the default floor of
// three.
type singleFeedFetcher struct{}

func (f *singleFeedFetcher) Fetch(ctx context.Context, feed domain.FeedSource) ([]domain.CandidateItem, error) {
	return []domain.CandidateItem{
		{Title: "only story one", URL: "https://solo.example/1", PublishedAt: testDate.Add(3 * time.Hour), RawContent: "short"},
		{Title: "only story two", URL: "https://solo.example/2", PublishedAt: testDate.Add(2 * time.Hour), RawContent: "short"},
	}, nil
}
