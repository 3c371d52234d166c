/*
Package cli implements the nexus-discovery command-line interface.

Each command is constructed by a NewXxxCmd function and registered on the
root command in cmd/nexus-discovery. Commands share one engine bootstrap
that loads configuration, opens the catalog and restores the vector index.
*/
package cli

import (
	"fmt"

	"github.com/emcpnexus/nexus-discovery/internal/catalog"
	"github.com/emcpnexus/nexus-discovery/internal/config"
	"github.com/emcpnexus/nexus-discovery/internal/embedding"
	"github.com/emcpnexus/nexus-discovery/internal/engine"
)

// newEngine bootstraps the engine from the default configuration.
// The caller must Close the returned engine.
func newEngine() (*engine.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cat, err := catalog.OpenSQLite(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	embedder := embedding.NewCachedClient(embedding.NewHTTPClient(
		cfg.Embedding.BaseURL,
		cfg.Embedding.Model,
		cfg.Embedding.APIKey,
		cfg.Embedding.Dimension,
	))

	eng, err := engine.New(cfg, embedder, cat)
	if err != nil {
		cat.Close()
		return nil, fmt.Errorf("failed to start engine: %w", err)
	}

	return eng, nil
}
