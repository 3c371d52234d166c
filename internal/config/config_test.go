package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Embedding.Dimension != DefaultDimension {
		t.Errorf("expected dimension %d, got %d", DefaultDimension, cfg.Embedding.Dimension)
	}
	if cfg.Index.Mode != "l2" {
		t.Errorf("expected default mode l2, got %q", cfg.Index.Mode)
	}
	if cfg.Search.DefaultLimit != DefaultSearchLimit {
		t.Errorf("expected default limit %d, got %d", DefaultSearchLimit, cfg.Search.DefaultLimit)
	}
	if !cfg.Search.MostRecentFallback {
		t.Error("expected most-recent fallback enabled by default")
	}
	if cfg.Search.KeywordIndex {
		t.Error("expected keyword index disabled by default")
	}
	if cfg.CatalogPath == "" {
		t.Error("expected a default catalog path")
	}
}

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got error: %v", err)
	}
	if cfg.Index.Mode != "l2" {
		t.Errorf("expected default mode l2, got %q", cfg.Index.Mode)
	}
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := NewConfig()
	cfg.Embedding.BaseURL = "http://example.com/v1"
	cfg.Embedding.Model = "custom-model"
	cfg.Index.Mode = "ip"
	cfg.Index.SimilarityThreshold = 0.75
	cfg.Search.DefaultLimit = 10
	cfg.Search.KeywordIndex = true
	cfg.Search.MostRecentFallback = false

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Embedding.BaseURL != "http://example.com/v1" {
		t.Errorf("expected base URL to round-trip, got %q", loaded.Embedding.BaseURL)
	}
	if loaded.Index.Mode != "ip" {
		t.Errorf("expected mode ip, got %q", loaded.Index.Mode)
	}
	if loaded.Index.SimilarityThreshold != 0.75 {
		t.Errorf("expected threshold 0.75, got %v", loaded.Index.SimilarityThreshold)
	}
	if loaded.Search.DefaultLimit != 10 {
		t.Errorf("expected limit 10, got %d", loaded.Search.DefaultLimit)
	}
	if !loaded.Search.KeywordIndex {
		t.Error("expected keyword index to round-trip")
	}
	if loaded.Search.MostRecentFallback {
		t.Error("expected disabled most-recent fallback to round-trip")
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadFrom_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad mode", `{"index": {"mode": "cosine"}}`},
		{"negative dimension", `{"embedding": {"dimension": -1}}`},
		{"negative limit", `{"search": {"defaultLimit": -3, "mostRecentFallback": true}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	if err := NewConfig().Validate(); err != nil {
		t.Errorf("expected default config to validate, got: %v", err)
	}
}
