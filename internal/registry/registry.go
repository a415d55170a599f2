// Package registry holds the static list of feed sources the ingestion
// pipeline polls. The default set mirrors the product's curated tech
// feeds; deployments can override it with a YAML file.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tech-news-hub/internal/domain/entity"
)

// DefaultSources returns the built-in feed source list.
// Registry order is ingestion order.
func DefaultSources() []entity.Source {
	return []entity.Source{
		{Name: "TechCrunch", FeedURL: "https://techcrunch.com/feed/"},
		{Name: "Ars Technica", FeedURL: "http://feeds.arstechnica.com/arstechnica/index"},
		{Name: "Wired", FeedURL: "https://www.wired.com/feed/rss"},
		{Name: "The Verge", FeedURL: "https://www.theverge.com/rss/index.xml"},
		{Name: "Engadget", FeedURL: "https://www.engadget.com/rss.xml"},
		{Name: "MIT Technology Review", FeedURL: "https://www.technologyreview.com/feed/"},
		{Name: "IEEE Spectrum", FeedURL: "https://spectrum.ieee.org/rss"},
		{Name: "VentureBeat", FeedURL: "https://venturebeat.com/feed/"},
	}
}

// sourcesFile is the YAML shape of an override file.
type sourcesFile struct {
	Sources []entity.Source `yaml:"sources"`
}

// LoadFromFile reads a source list from a YAML file.
// The path parameter is expected to come from a trusted source (environment
// variable or hardcoded default), not request input.
func LoadFromFile(path string) ([]entity.Source, error) {
	// #nosec G304 -- path is provided by trusted source (env var), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	if err := validate(file.Sources); err != nil {
		return nil, fmt.Errorf("sources file validation failed: %w", err)
	}

	return file.Sources, nil
}

// Load resolves the active source list: the SOURCES_FILE override when the
// environment variable is set, the built-in defaults otherwise.
func Load() ([]entity.Source, error) {
	if path := os.Getenv("SOURCES_FILE"); path != "" {
		return LoadFromFile(path)
	}
	return DefaultSources(), nil
}

// validate checks every source and rejects duplicate names: sourceName is
// the read API's filter key, so it must identify exactly one endpoint.
func validate(sources []entity.Source) error {
	if len(sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	seen := make(map[string]bool, len(sources))
	for i := range sources {
		if err := sources[i].Validate(); err != nil {
			return fmt.Errorf("source %d (%q): %w", i, sources[i].Name, err)
		}
		if seen[sources[i].Name] {
			return fmt.Errorf("duplicate source name: %q", sources[i].Name)
		}
		seen[sources[i].Name] = true
	}
	return nil
}
