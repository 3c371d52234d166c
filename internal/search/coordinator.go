package search

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/emcpnexus/nexus-discovery/internal/catalog"
	"github.com/emcpnexus/nexus-discovery/internal/embedding"
	"github.com/emcpnexus/nexus-discovery/internal/vector"
)

// ErrInvalidLimit is returned for a negative result limit.
var ErrInvalidLimit = errors.New("result limit must not be negative")

// Coordinator resolves free-text queries through the tiered fallback chain.
//
// Tier advancement is decided by inspecting result emptiness, never by
// catching errors: a tier that fails logs a warning and contributes an empty
// result set, which advances the chain.
type Coordinator struct {
	embedder embedding.Client
	index    *vector.Index
	catalog  catalog.Catalog

	// keyword is optional; when nil the lexical tier uses catalog
	// substring matching.
	keyword *KeywordIndex

	defaultLimit       int
	mostRecentFallback bool
}

// Options configures a Coordinator.
type Options struct {
	// Keyword enables BM25 keyword matching for the lexical tier.
	Keyword *KeywordIndex

	// DefaultLimit is used when callers pass k == 0.
	DefaultLimit int

	// MostRecentFallback enables the last-resort tier. Disabling it is a
	// policy choice: unmatched queries then return empty rather than
	// irrelevant tools.
	MostRecentFallback bool
}

// NewCoordinator creates a search coordinator.
func NewCoordinator(embedder embedding.Client, index *vector.Index, cat catalog.Catalog, opts Options) *Coordinator {
	limit := opts.DefaultLimit
	if limit <= 0 {
		limit = 5
	}

	return &Coordinator{
		embedder:           embedder,
		index:              index,
		catalog:            cat,
		keyword:            opts.Keyword,
		defaultLimit:       limit,
		mostRecentFallback: opts.MostRecentFallback,
	}
}

// Search resolves query into a ranked tool list.
//
// The returned tier reports which strategy produced the results. The only
// error condition is malformed input (negative k); retrieval failures
// degrade through the fallback chain instead of surfacing.
func (c *Coordinator) Search(ctx context.Context, query string, k int) ([]Result, Tier, error) {
	if k < 0 {
		return nil, TierNone, ErrInvalidLimit
	}
	if k == 0 {
		k = c.defaultLimit
	}

	results, tier := c.runTiers(ctx, query, k)
	c.recordSearch(query, tier, len(results))

	return results, tier, nil
}

// runTiers executes the fallback chain, short-circuiting on the first tier
// that yields a non-empty result.
func (c *Coordinator) runTiers(ctx context.Context, query string, k int) ([]Result, Tier) {
	if results := c.semanticTier(ctx, query, k); len(results) > 0 {
		return results, TierSemantic
	}

	if results := c.lexicalTier(query, k); len(results) > 0 {
		return results, TierLexical
	}

	if c.mostRecentFallback {
		if results := c.mostRecentTier(k); len(results) > 0 {
			return results, TierMostRecent
		}
	}

	return []Result{}, TierNone
}

// semanticTier embeds the query and resolves nearest-neighbor matches
// against the catalog. Any failure yields an empty result set so the chain
// advances; an embedding failure must degrade, not propagate.
func (c *Coordinator) semanticTier(ctx context.Context, query string, k int) []Result {
	if c.index.Count() == 0 {
		return nil
	}

	vec, err := c.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("Warning: query embedding failed, falling back to lexical tier: %v", err)
		return nil
	}

	matches, err := c.index.Search(vec, k)
	if err != nil {
		log.Printf("Warning: vector search failed: %v", err)
		return nil
	}
	if len(matches) == 0 {
		return nil
	}

	ids := make([]int64, len(matches))
	scores := make(map[int64]float64, len(matches))
	for i, m := range matches {
		ids[i] = m.ToolID
		if _, seen := scores[m.ToolID]; !seen {
			scores[m.ToolID] = m.Score
		}
	}

	tools, err := c.catalog.FetchByIDs(ids)
	if err != nil {
		log.Printf("Warning: failed to resolve semantic matches: %v", err)
		return nil
	}

	// FetchByIDs does not preserve input order; re-sort the rows into the
	// similarity ranking from the index.
	byID := make(map[int64]catalog.Tool, len(tools))
	for _, tool := range tools {
		byID[tool.ID] = tool
	}

	results := make([]Result, 0, len(matches))
	seen := make(map[int64]bool, len(matches))
	for _, id := range ids {
		tool, ok := byID[id]
		if !ok || seen[id] {
			// Index entries may reference catalog rows that no longer
			// exist, and a re-indexed tool can match at two positions.
			continue
		}
		seen[id] = true

		result := toResult(tool)
		result.Score = scores[id]
		result.HasScore = true
		results = append(results, result)
	}

	return results
}

// lexicalTier matches the query against tool names and descriptions, via the
// keyword index when enabled or catalog substring matching otherwise.
// Lexical results carry no score.
func (c *Coordinator) lexicalTier(query string, k int) []Result {
	if c.keyword != nil {
		ids, err := c.keyword.Search(query, k)
		if err != nil {
			log.Printf("Warning: keyword search failed: %v", err)
		} else if len(ids) > 0 {
			return c.resolveOrdered(ids)
		}
		return nil
	}

	tools, err := c.catalog.FetchBySubstring(query, k)
	if err != nil {
		log.Printf("Warning: substring search failed: %v", err)
		return nil
	}

	return toResults(tools)
}

// mostRecentTier returns the newest tools as a last resort.
func (c *Coordinator) mostRecentTier(k int) []Result {
	tools, err := c.catalog.FetchMostRecent(k)
	if err != nil {
		log.Printf("Warning: most-recent fetch failed: %v", err)
		return nil
	}

	return toResults(tools)
}

// resolveOrdered fetches catalog rows for ids and returns them in the order
// given, preserving the keyword ranking.
func (c *Coordinator) resolveOrdered(ids []int64) []Result {
	tools, err := c.catalog.FetchByIDs(ids)
	if err != nil {
		log.Printf("Warning: failed to resolve keyword matches: %v", err)
		return nil
	}

	byID := make(map[int64]catalog.Tool, len(tools))
	for _, tool := range tools {
		byID[tool.ID] = tool
	}

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		if tool, ok := byID[id]; ok {
			results = append(results, toResult(tool))
		}
	}
	return results
}

// recordSearch stores a search record for analytics, best effort.
func (c *Coordinator) recordSearch(query string, tier Tier, count int) {
	record := catalog.SearchRecord{
		SearchID:     uuid.NewString(),
		QueryHash:    catalog.HashQuery(query),
		Tier:         string(tier),
		ResultsCount: count,
		Timestamp:    time.Now().UTC(),
	}

	if err := c.catalog.RecordSearch(record); err != nil {
		log.Printf("Warning: failed to record search: %v", err)
	}
}

// toResult converts a catalog row to a search result without a score.
func toResult(tool catalog.Tool) Result {
	return Result{
		ID:          tool.ID,
		Name:        tool.Name,
		Description: tool.Description,
		Cost:        tool.Cost,
		URL:         tool.URL,
		OwnerID:     tool.OwnerID,
	}
}

// toResults converts catalog rows preserving their order.
func toResults(tools []catalog.Tool) []Result {
	results := make([]Result, 0, len(tools))
	for _, tool := range tools {
		results = append(results, toResult(tool))
	}
	return results
}
