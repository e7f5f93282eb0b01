package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Load builds the configuration from defaults and environment overrides.
func Load() (*Config, error) {
	config := defaultConfig()

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	if err := loadIngestConfig(&config.Ingest); err != nil {
		return fmt.Errorf("failed to load ingest config: %w", err)
	}

	if err := loadHydrateConfig(&config.Hydrate); err != nil {
		return fmt.Errorf("failed to load hydrate config: %w", err)
	}

	if err := loadTextGenConfig(&config.TextGen); err != nil {
		return fmt.Errorf("failed to load text generation config: %w", err)
	}

	if err := loadSummarizeConfig(&config.Summarize); err != nil {
		return fmt.Errorf("failed to load summarize config: %w", err)
	}

	if err := loadSynthesisConfig(&config.Synthesis); err != nil {
		return fmt.Errorf("failed to load synthesis config: %w", err)
	}

	if err := loadQAConfig(&config.QA); err != nil {
		return fmt.Errorf("failed to load QA config: %w", err)
	}

	if err := loadMetricsConfig(&config.Metrics); err != nil {
		return fmt.Errorf("failed to load metrics config: %w", err)
	}

	if err := loadEditionConfig(&config.Edition); err != nil {
		return fmt.Errorf("failed to load edition config: %w", err)
	}

	return nil
}

func loadIngestConfig(cfg *IngestConfig) error {
	var err error

	if v := os.Getenv("INGEST_FEEDS_FILE"); v != "" {
		cfg.FeedsFile = v
	}

	if cfg.FeedTimeout, err = parseDurationEnv("INGEST_FEED_TIMEOUT", cfg.FeedTimeout); err != nil {
		return err
	}

	if cfg.MaxConcurrentFeeds, err = parseIntEnv("INGEST_MAX_CONCURRENT_FEEDS", cfg.MaxConcurrentFeeds); err != nil {
		return err
	}

	if cfg.MaxPerFeed, err = parseIntEnv("INGEST_MAX_PER_FEED", cfg.MaxPerFeed); err != nil {
		return err
	}

	if cfg.CutoffHour, err = parseIntEnv("INGEST_CUTOFF_HOUR", cfg.CutoffHour); err != nil {
		return err
	}

	if cfg.RequestsPerSecond, err = parseFloatEnv("INGEST_REQUESTS_PER_SECOND", cfg.RequestsPerSecond); err != nil {
		return err
	}

	if v := os.Getenv("INGEST_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	return nil
}

func loadHydrateConfig(cfg *HydrateConfig) error {
	var err error

	if cfg.MinContentChars, err = parseIntEnv("HYDRATE_MIN_CONTENT_CHARS", cfg.MinContentChars); err != nil {
		return err
	}

	if cfg.GlobalLimit, err = parseIntEnv("HYDRATE_GLOBAL_LIMIT", cfg.GlobalLimit); err != nil {
		return err
	}

	if cfg.PerHostLimit, err = parseIntEnv("HYDRATE_PER_HOST_LIMIT", cfg.PerHostLimit); err != nil {
		return err
	}

	if cfg.FetchTimeout, err = parseDurationEnv("HYDRATE_FETCH_TIMEOUT", cfg.FetchTimeout); err != nil {
		return err
	}

	return nil
}

func loadTextGenConfig(cfg *TextGenConfig) error {
	var err error

	if v := os.Getenv("TEXTGEN_HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("TEXTGEN_API_PATH"); v != "" {
		cfg.APIPath = v
	}

	if v := os.Getenv("TEXTGEN_MODEL"); v != "" {
		cfg.Model = v
	}

	if v := os.Getenv("TEXTGEN_SESSION_HINT"); v != "" {
		cfg.SessionHint = v
	}

	if cfg.Timeout, err = parseDurationEnv("TEXTGEN_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	if cfg.Temperature, err = parseFloatEnv("TEXTGEN_TEMPERATURE", cfg.Temperature); err != nil {
		return err
	}

	if cfg.TopP, err = parseFloatEnv("TEXTGEN_TOP_P", cfg.TopP); err != nil {
		return err
	}

	if cfg.NumPredict, err = parseIntEnv("TEXTGEN_NUM_PREDICT", cfg.NumPredict); err != nil {
		return err
	}

	if cfg.NumCtx, err = parseIntEnv("TEXTGEN_NUM_CTX", cfg.NumCtx); err != nil {
		return err
	}

	return nil
}

func loadSummarizeConfig(cfg *SummarizeConfig) error {
	var err error

	if cfg.MaxAttempts, err = parseIntEnv("SUMMARIZE_MAX_ATTEMPTS", cfg.MaxAttempts); err != nil {
		return err
	}

	if cfg.BaseDelay, err = parseDurationEnv("SUMMARIZE_BASE_DELAY", cfg.BaseDelay); err != nil {
		return err
	}

	if cfg.MaxDelay, err = parseDurationEnv("SUMMARIZE_MAX_DELAY", cfg.MaxDelay); err != nil {
		return err
	}

	if cfg.BackoffFactor, err = parseFloatEnv("SUMMARIZE_BACKOFF_FACTOR", cfg.BackoffFactor); err != nil {
		return err
	}

	if cfg.JitterFactor, err = parseFloatEnv("SUMMARIZE_JITTER_FACTOR", cfg.JitterFactor); err != nil {
		return err
	}

	if cfg.Concurrency, err = parseIntEnv("SUMMARIZE_CONCURRENCY", cfg.Concurrency); err != nil {
		return err
	}

	return nil
}

func loadSynthesisConfig(cfg *SynthesisConfig) error {
	var err error

	if cfg.MaxAttempts, err = parseIntEnv("SYNTHESIS_MAX_ATTEMPTS", cfg.MaxAttempts); err != nil {
		return err
	}

	if cfg.MinItems, err = parseIntEnv("SYNTHESIS_MIN_ITEMS", cfg.MinItems); err != nil {
		return err
	}

	if cfg.LookbackDays, err = parseIntEnv("SYNTHESIS_LOOKBACK_DAYS", cfg.LookbackDays); err != nil {
		return err
	}

	if cfg.MaxThemes, err = parseIntEnv("SYNTHESIS_MAX_THEMES", cfg.MaxThemes); err != nil {
		return err
	}

	return nil
}

func loadQAConfig(cfg *QAConfig) error {
	var err error

	if cfg.SectionWordMin, err = parseIntEnv("QA_SECTION_WORD_MIN", cfg.SectionWordMin); err != nil {
		return err
	}

	if cfg.SectionWordMax, err = parseIntEnv("QA_SECTION_WORD_MAX", cfg.SectionWordMax); err != nil {
		return err
	}

	if cfg.MinParagraphs, err = parseIntEnv("QA_MIN_PARAGRAPHS", cfg.MinParagraphs); err != nil {
		return err
	}

	if cfg.MinCitations, err = parseIntEnv("QA_MIN_CITATIONS", cfg.MinCitations); err != nil {
		return err
	}

	if cfg.MinCitationSources, err = parseIntEnv("QA_MIN_CITATION_SOURCES", cfg.MinCitationSources); err != nil {
		return err
	}

	if cfg.CitationsBlocking, err = parseBoolEnv("QA_CITATIONS_BLOCKING", cfg.CitationsBlocking); err != nil {
		return err
	}

	if cfg.MaxSectionOverlap, err = parseFloatEnv("QA_MAX_SECTION_OVERLAP", cfg.MaxSectionOverlap); err != nil {
		return err
	}

	return nil
}

func loadMetricsConfig(cfg *MetricsConfig) error {
	var err error

	if cfg.Enabled, err = parseBoolEnv("METRICS_ENABLED", cfg.Enabled); err != nil {
		return err
	}

	if cfg.Port, err = parseIntEnv("METRICS_PORT", cfg.Port); err != nil {
		return err
	}

	if v := os.Getenv("METRICS_PATH"); v != "" {
		cfg.Path = v
	}

	return nil
}

func loadEditionConfig(cfg *EditionConfig) error {
	if v := os.Getenv("EDITION_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	if v := os.Getenv("EDITION_SEEN_SET_FILE"); v != "" {
		cfg.SeenSetFile = v
	}

	return nil
}

func parseIntEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q", key, raw)
	}

	return value, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float for %s: %q", key, raw)
	}

	return value, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for %s: %q", key, raw)
	}

	return value, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, raw)
	}

	return value, nil
}
