package config

import (
	"fmt"
	"os"

	"edition-builder/domain"

	"gopkg.in/yaml.v3"
)

type feedsFile struct {
	Feeds []domain.FeedSource `yaml:"feeds"`
}

// LoadFeeds reads the operator-supplied feed list. An empty or missing
// list is a configuration error: the pipeline has nothing to do.
func LoadFeeds(path string) ([]domain.FeedSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file %s: %w", path, err)
	}

	var parsed feedsFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file %s: %w", path, err)
	}

	if len(parsed.Feeds) == 0 {
		return nil, fmt.Errorf("feeds file %s defines no feeds", path)
	}

	for i, feed := range parsed.Feeds {
		if feed.Name == "" {
			return nil, fmt.Errorf("feed %d has no name", i)
		}
		if feed.URL == "" {
			return nil, fmt.Errorf("feed %q has no url", feed.Name)
		}
	}

	return parsed.Feeds, nil
}
