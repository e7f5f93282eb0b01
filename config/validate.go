package config

import (
	"errors"
	"fmt"
)

func validateConfig(config *Config) error {
	if config.Ingest.FeedTimeout <= 0 {
		return errors.New("ingest feed timeout must be positive")
	}

	if config.Ingest.MaxConcurrentFeeds <= 0 {
		return errors.New("ingest max concurrent feeds must be positive")
	}

	if config.Ingest.MaxPerFeed <= 0 {
		return errors.New("ingest max per feed must be positive")
	}

	if config.Ingest.CutoffHour < 0 || config.Ingest.CutoffHour > 23 {
		return fmt.Errorf("ingest cutoff hour must be in [0,23], got %d", config.Ingest.CutoffHour)
	}

	if config.Ingest.RequestsPerSecond <= 0 {
		return errors.New("ingest requests per second must be positive")
	}

	if config.Hydrate.MinContentChars < 0 {
		return errors.New("hydrate min content chars must not be negative")
	}

	if config.Hydrate.GlobalLimit <= 0 {
		return errors.New("hydrate global limit must be positive")
	}

	if config.Hydrate.PerHostLimit <= 0 {
		return errors.New("hydrate per-host limit must be positive")
	}

	// The per-host cap is meaningless above the global cap.
	if config.Hydrate.PerHostLimit > config.Hydrate.GlobalLimit {
		return fmt.Errorf("hydrate per-host limit (%d) must not exceed global limit (%d)",
			config.Hydrate.PerHostLimit, config.Hydrate.GlobalLimit)
	}

	if config.Hydrate.FetchTimeout <= 0 {
		return errors.New("hydrate fetch timeout must be positive")
	}

	if config.TextGen.Host == "" {
		return errors.New("text generation host must not be empty")
	}

	if config.TextGen.Model == "" {
		return errors.New("text generation model must not be empty")
	}

	if config.TextGen.Timeout <= 0 {
		return errors.New("text generation timeout must be positive")
	}

	if config.Summarize.MaxAttempts <= 0 {
		return errors.New("summarize max attempts must be positive")
	}

	if config.Summarize.BaseDelay <= 0 {
		return errors.New("summarize base delay must be positive")
	}

	if config.Summarize.BackoffFactor < 1.0 {
		return errors.New("summarize backoff factor must be at least 1.0")
	}

	if config.Summarize.Concurrency <= 0 {
		return errors.New("summarize concurrency must be positive")
	}

	if config.Synthesis.MaxAttempts <= 0 {
		return errors.New("synthesis max attempts must be positive")
	}

	if config.Synthesis.MinItems <= 0 {
		return errors.New("synthesis min items must be positive")
	}

	if config.Synthesis.LookbackDays < 0 {
		return errors.New("synthesis lookback days must not be negative")
	}

	if config.QA.SectionWordMin < 0 || config.QA.SectionWordMax < config.QA.SectionWordMin {
		return errors.New("QA section word range is invalid")
	}

	if config.QA.MaxSectionOverlap < 0 || config.QA.MaxSectionOverlap > 1 {
		return errors.New("QA max section overlap must be in [0,1]")
	}

	if config.Metrics.Enabled {
		if config.Metrics.Port <= 0 || config.Metrics.Port > 65535 {
			return errors.New("invalid metrics port")
		}
	}

	if config.Edition.OutputDir == "" {
		return errors.New("edition output dir must not be empty")
	}

	if config.Edition.SeenSetFile == "" {
		return errors.New("seen set file must not be empty")
	}

	return nil
}
