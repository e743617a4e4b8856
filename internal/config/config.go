// Package config provides configuration loading and structs for the movierec server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Bundle   BundleConfig   `yaml:"bundle"`
	Metadata MetadataConfig `yaml:"metadata"`
	Search   SearchConfig   `yaml:"search"`
	Browse   BrowseConfig   `yaml:"browse"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BundleConfig holds settings for the catalog/vector bundle.
type BundleConfig struct {
	Path string `yaml:"path"`
	// WatchReload rebuilds the in-memory snapshot when the bundle file
	// changes on disk; defaults to true when unset.
	WatchReload *bool `yaml:"watch_reload"`
}

// WatchReloadOrDefault returns whether to watch the bundle for changes;
// defaults to true when unset.
func (b *BundleConfig) WatchReloadOrDefault() bool {
	if b.WatchReload != nil {
		return *b.WatchReload
	}
	return true
}

// MetadataConfig holds settings for the external movie-metadata provider.
type MetadataConfig struct {
	// BaseURL is the OMDb-compatible endpoint.
	BaseURL string `yaml:"base_url"`
	// APIKey authenticates provider requests. Empty disables enrichment
	// entirely; every response then degrades to title-only entries.
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// CachePath is the SQLite file caching provider responses. Empty disables
	// the cache.
	CachePath     string `yaml:"cache_path"`
	CacheTTLHours int    `yaml:"cache_ttl_hours"`
	// FetchConcurrency bounds parallel provider calls during list enrichment.
	FetchConcurrency int `yaml:"fetch_concurrency"`
}

// SearchConfig holds title matching and keyword search settings.
type SearchConfig struct {
	// MaxCandidates caps fuzzy title matches per query.
	MaxCandidates int `yaml:"max_candidates"`
	// MinSimilarity is the sequence-similarity cutoff for fuzzy matches.
	MinSimilarity float64 `yaml:"min_similarity"`
	// KeywordIndexPath is the on-disk Bleve index; empty uses an in-memory
	// index rebuilt from the bundle at startup.
	KeywordIndexPath  string  `yaml:"keyword_index_path"`
	KeywordTitleBoost float64 `yaml:"keyword_title_boost"`
}

// BrowseLanguage is one selectable language in the browse sections.
type BrowseLanguage struct {
	Label string `yaml:"label"`
	Code  string `yaml:"code"`
}

// BrowseConfig holds popular/featured browse settings.
type BrowseConfig struct {
	Languages []BrowseLanguage `yaml:"languages"`
	// PopularLimit is how many movies a per-language popular list shows.
	PopularLimit int `yaml:"popular_limit"`
	// FeaturedPerLanguage and FeaturedTotal shape the shuffled featured list.
	FeaturedPerLanguage int `yaml:"featured_per_language"`
	FeaturedTotal       int `yaml:"featured_total"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Bundle.Path = expandPath(cfg.Bundle.Path, configDir)
	cfg.Metadata.CachePath = expandPath(cfg.Metadata.CachePath, configDir)
	if cfg.Search.KeywordIndexPath != "" {
		cfg.Search.KeywordIndexPath = expandPath(cfg.Search.KeywordIndexPath, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
