package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
bundle:
  path: "/data/movies.bundle"
metadata:
  api_key: "testkey"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Bundle.Path != "/data/movies.bundle" {
		t.Errorf("bundle path: got %s", cfg.Bundle.Path)
	}
	if cfg.Metadata.APIKey != "testkey" {
		t.Errorf("api key: got %s", cfg.Metadata.APIKey)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
bundle:
  path: "./data/movies.bundle"
metadata:
  cache_path: "./data/db/metadata.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantBundle := filepath.Join(dir, "data", "movies.bundle")
	if cfg.Bundle.Path != wantBundle {
		t.Errorf("bundle path = %s, want %s", cfg.Bundle.Path, wantBundle)
	}
	wantCache := filepath.Join(dir, "data", "db", "metadata.db")
	if cfg.Metadata.CachePath != wantCache {
		t.Errorf("cache path = %s, want %s", cfg.Metadata.CachePath, wantCache)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Search.MaxCandidates != 5 {
		t.Errorf("default max_candidates: got %d", cfg.Search.MaxCandidates)
	}
	if cfg.Search.MinSimilarity != 0.6 {
		t.Errorf("default min_similarity: got %f", cfg.Search.MinSimilarity)
	}
	if len(cfg.Browse.Languages) != 7 || cfg.Browse.Languages[0].Code != "en" {
		t.Errorf("default browse languages: got %v", cfg.Browse.Languages)
	}
	if cfg.Browse.FeaturedPerLanguage != 3 || cfg.Browse.FeaturedTotal != 12 {
		t.Errorf("featured defaults: got %d/%d", cfg.Browse.FeaturedPerLanguage, cfg.Browse.FeaturedTotal)
	}
	if cfg.Metadata.TimeoutSeconds != 5 {
		t.Errorf("default metadata timeout: got %d", cfg.Metadata.TimeoutSeconds)
	}
}

func TestBundleConfig_WatchReloadOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		b := &BundleConfig{}
		if !b.WatchReloadOrDefault() {
			t.Error("WatchReloadOrDefault() = false, want true")
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		b := &BundleConfig{WatchReload: &f}
		if b.WatchReloadOrDefault() {
			t.Error("WatchReloadOrDefault() = true, want false")
		}
	})
}
