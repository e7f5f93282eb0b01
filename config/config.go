// ABOUTME: This file defines the pipeline configuration with per-section defaults
// ABOUTME: Values are overridden via environment variables and validated at startup
package config

import "time"

// Config is the full pipeline configuration.
type Config struct {
	Ingest    IngestConfig    `json:"ingest"`
	Hydrate   HydrateConfig   `json:"hydrate"`
	TextGen   TextGenConfig   `json:"text_gen"`
	Summarize SummarizeConfig `json:"summarize"`
	Synthesis SynthesisConfig `json:"synthesis"`
	QA        QAConfig        `json:"qa"`
	Metrics   MetricsConfig   `json:"metrics"`
	Edition   EditionConfig   `json:"edition"`
}

// IngestConfig governs feed fetching and freshness filtering.
type IngestConfig struct {
	FeedsFile          string        `json:"feeds_file" env:"INGEST_FEEDS_FILE" default:"feeds.yml"`
	FeedTimeout        time.Duration `json:"feed_timeout" env:"INGEST_FEED_TIMEOUT" default:"20s"`
	MaxConcurrentFeeds int           `json:"max_concurrent_feeds" env:"INGEST_MAX_CONCURRENT_FEEDS" default:"6"`
	MaxPerFeed         int           `json:"max_per_feed" env:"INGEST_MAX_PER_FEED" default:"8"`
	CutoffHour         int           `json:"cutoff_hour" env:"INGEST_CUTOFF_HOUR" default:"7"`
	RequestsPerSecond  float64       `json:"requests_per_second" env:"INGEST_REQUESTS_PER_SECOND" default:"4"`
	UserAgent          string        `json:"user_agent" env:"INGEST_USER_AGENT" default:"edition-builder/1.0"`
}

// HydrateConfig governs full-text fetching and its dual admission control.
type HydrateConfig struct {
	MinContentChars int           `json:"min_content_chars" env:"HYDRATE_MIN_CONTENT_CHARS" default:"600"`
	GlobalLimit     int           `json:"global_limit" env:"HYDRATE_GLOBAL_LIMIT" default:"8"`
	PerHostLimit    int           `json:"per_host_limit" env:"HYDRATE_PER_HOST_LIMIT" default:"2"`
	FetchTimeout    time.Duration `json:"fetch_timeout" env:"HYDRATE_FETCH_TIMEOUT" default:"15s"`
}

// TextGenConfig describes the external text-generation service.
type TextGenConfig struct {
	Host        string        `json:"host" env:"TEXTGEN_HOST" default:"http://localhost:11434"`
	APIPath     string        `json:"api_path" env:"TEXTGEN_API_PATH" default:"/api/generate"`
	Model       string        `json:"model" env:"TEXTGEN_MODEL" default:"gemma3:4b"`
	Timeout     time.Duration `json:"timeout" env:"TEXTGEN_TIMEOUT" default:"120s"`
	SessionHint string        `json:"session_hint" env:"TEXTGEN_SESSION_HINT" default:""`
	Temperature float64       `json:"temperature" env:"TEXTGEN_TEMPERATURE" default:"0.2"`
	TopP        float64       `json:"top_p" env:"TEXTGEN_TOP_P" default:"0.9"`
	NumPredict  int           `json:"num_predict" env:"TEXTGEN_NUM_PREDICT" default:"2048"`
	NumCtx      int           `json:"num_ctx" env:"TEXTGEN_NUM_CTX" default:"16384"`
}

// SummarizeConfig governs the per-item summarization attempt loop.
type SummarizeConfig struct {
	MaxAttempts   int           `json:"max_attempts" env:"SUMMARIZE_MAX_ATTEMPTS" default:"3"`
	BaseDelay     time.Duration `json:"base_delay" env:"SUMMARIZE_BASE_DELAY" default:"2s"`
	MaxDelay      time.Duration `json:"max_delay" env:"SUMMARIZE_MAX_DELAY" default:"30s"`
	BackoffFactor float64       `json:"backoff_factor" env:"SUMMARIZE_BACKOFF_FACTOR" default:"2.0"`
	JitterFactor  float64       `json:"jitter_factor" env:"SUMMARIZE_JITTER_FACTOR" default:"0.2"`
	Concurrency   int           `json:"concurrency" env:"SUMMARIZE_CONCURRENCY" default:"2"`
}

// SynthesisConfig governs long-form generation and the run-level floor.
type SynthesisConfig struct {
	MaxAttempts  int `json:"max_attempts" env:"SYNTHESIS_MAX_ATTEMPTS" default:"2"`
	MinItems     int `json:"min_items" env:"SYNTHESIS_MIN_ITEMS" default:"3"`
	LookbackDays int `json:"lookback_days" env:"SYNTHESIS_LOOKBACK_DAYS" default:"7"`
	MaxThemes    int `json:"max_themes" env:"SYNTHESIS_MAX_THEMES" default:"5"`
}

// QAConfig holds the quality-gate thresholds. These are empirically tuned
// product constants, kept out of the algorithm on purpose.
type QAConfig struct {
	SectionWordMin     int     `json:"section_word_min" env:"QA_SECTION_WORD_MIN" default:"40"`
	SectionWordMax     int     `json:"section_word_max" env:"QA_SECTION_WORD_MAX" default:"600"`
	MinParagraphs      int     `json:"min_paragraphs" env:"QA_MIN_PARAGRAPHS" default:"1"`
	MinCitations       int     `json:"min_citations" env:"QA_MIN_CITATIONS" default:"2"`
	MinCitationSources int     `json:"min_citation_sources" env:"QA_MIN_CITATION_SOURCES" default:"2"`
	CitationsBlocking  bool    `json:"citations_blocking" env:"QA_CITATIONS_BLOCKING" default:"false"`
	MaxSectionOverlap  float64 `json:"max_section_overlap" env:"QA_MAX_SECTION_OVERLAP" default:"0.45"`
}

// MetricsConfig controls the outcome aggregator's optional live export.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" env:"METRICS_ENABLED" default:"false"`
	Port    int    `json:"port" env:"METRICS_PORT" default:"9320"`
	Path    string `json:"path" env:"METRICS_PATH" default:"/metrics"`
}

// EditionConfig controls where finished editions are written.
type EditionConfig struct {
	OutputDir   string `json:"output_dir" env:"EDITION_OUTPUT_DIR" default:"editions"`
	SeenSetFile string `json:"seen_set_file" env:"EDITION_SEEN_SET_FILE" default:"editions/.seen"`
}

// Default returns the built-in configuration, before any environment
// overrides are applied.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			FeedsFile:          "feeds.yml",
			FeedTimeout:        20 * time.Second,
			MaxConcurrentFeeds: 6,
			MaxPerFeed:         8,
			CutoffHour:         7,
			RequestsPerSecond:  4,
			UserAgent:          "edition-builder/1.0",
		},
		Hydrate: HydrateConfig{
			MinContentChars: 600,
			GlobalLimit:     8,
			PerHostLimit:    2,
			FetchTimeout:    15 * time.Second,
		},
		TextGen: TextGenConfig{
			Host:        "http://localhost:11434",
			APIPath:     "/api/generate",
			Model:       "gemma3:4b",
			Timeout:     120 * time.Second,
			Temperature: 0.2,
			TopP:        0.9,
			NumPredict:  2048,
			NumCtx:      16384,
		},
		Summarize: SummarizeConfig{
			MaxAttempts:   3,
			BaseDelay:     2 * time.Second,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2.0,
			JitterFactor:  0.2,
			Concurrency:   2,
		},
		Synthesis: SynthesisConfig{
			MaxAttempts:  2,
			MinItems:     3,
			LookbackDays: 7,
			MaxThemes:    5,
		},
		QA: QAConfig{
			SectionWordMin:     40,
			SectionWordMax:     600,
			MinParagraphs:      1,
			MinCitations:       2,
			MinCitationSources: 2,
			MaxSectionOverlap:  0.45,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9320,
			Path:    "/metrics",
		},
		Edition: EditionConfig{
			OutputDir:   "editions",
			SeenSetFile: "editions/.seen",
		},
	}
}
