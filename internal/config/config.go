/*
Package config handles loading and saving nexus-discovery configuration.

Configuration is stored in ~/.nexus-discovery.json.

Schema:

	{
	  "embedding": {
	    "baseUrl": "http://localhost:11434/v1",
	    "model": "all-minilm",
	    "dimension": 384
	  },
	  "index": {
	    "mode": "l2",
	    "similarityThreshold": 0,
	    "dataDir": "~/.nexus-discovery"
	  },
	  "search": {
	    "defaultLimit": 5,
	    "keywordIndex": false,
	    "mostRecentFallback": true
	  },
	  "catalogPath": "~/.nexus-discovery/catalog.db"
	}
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDimension is the embedding dimension used when none is configured.
	DefaultDimension = 384

	// DefaultSearchLimit is the number of results returned when k is not given.
	DefaultSearchLimit = 5
)

// Config represents the root configuration structure.
type Config struct {
	// Embedding configures the embedding client.
	Embedding EmbeddingConfig `json:"embedding"`

	// Index configures the vector index and its snapshot location.
	Index IndexConfig `json:"index"`

	// Search configures the tiered search coordinator.
	Search SearchConfig `json:"search"`

	// CatalogPath is the path to the tool catalog database.
	CatalogPath string `json:"catalogPath,omitempty"`
}

// EmbeddingConfig configures the embedding endpoint.
type EmbeddingConfig struct {
	// BaseURL is the base URL of an OpenAI-compatible embeddings endpoint.
	BaseURL string `json:"baseUrl,omitempty"`

	// Model is the embedding model name.
	Model string `json:"model,omitempty"`

	// APIKey authenticates against the endpoint (optional for local models).
	APIKey string `json:"apiKey,omitempty"`

	// Dimension is the fixed embedding dimension.
	Dimension int `json:"dimension,omitempty"`
}

// IndexConfig configures the vector index.
type IndexConfig struct {
	// Mode selects the distance function: "l2" (squared euclidean) or
	// "ip" (inner product over normalized vectors).
	Mode string `json:"mode,omitempty"`

	// SimilarityThreshold drops semantic matches that fail the cutoff
	// before truncation to k. Zero disables the threshold.
	SimilarityThreshold float64 `json:"similarityThreshold,omitempty"`

	// DataDir is where index snapshots are written.
	DataDir string `json:"dataDir,omitempty"`
}

// SearchConfig configures the search coordinator.
type SearchConfig struct {
	// DefaultLimit is the result count used when the caller passes k == 0.
	DefaultLimit int `json:"defaultLimit,omitempty"`

	// KeywordIndex enables the BM25 keyword index for the lexical tier.
	// When disabled, the lexical tier uses catalog substring matching.
	KeywordIndex bool `json:"keywordIndex,omitempty"`

	// MostRecentFallback enables the last-resort most-recent tier. Some
	// deployments disable it so an unmatched query returns empty results.
	MostRecentFallback bool `json:"mostRecentFallback"`
}

// NewConfig creates a configuration populated with defaults.
func NewConfig() *Config {
	home, err := os.UserHomeDir()
	dataDir := ".nexus-discovery"
	if err == nil {
		dataDir = filepath.Join(home, ".nexus-discovery")
	}

	return &Config{
		Embedding: EmbeddingConfig{
			BaseURL:   "http://localhost:11434/v1",
			Model:     "all-minilm",
			Dimension: DefaultDimension,
		},
		Index: IndexConfig{
			Mode:    "l2",
			DataDir: dataDir,
		},
		Search: SearchConfig{
			DefaultLimit:       DefaultSearchLimit,
			MostRecentFallback: true,
		},
		CatalogPath: filepath.Join(dataDir, "catalog.db"),
	}
}

// GetDefaultConfigPath returns the path to ~/.nexus-discovery.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".nexus-discovery.json"), nil
}

// Load reads the configuration from the default path.
// A missing file yields the default configuration, not an error.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension)
	}
	if c.Index.Mode != "l2" && c.Index.Mode != "ip" {
		return fmt.Errorf("index mode must be %q or %q, got %q", "l2", "ip", c.Index.Mode)
	}
	if c.Search.DefaultLimit <= 0 {
		return fmt.Errorf("search default limit must be positive, got %d", c.Search.DefaultLimit)
	}
	return nil
}
