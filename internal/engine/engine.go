/*
Package engine wires the discovery components into one explicitly constructed
object with a defined lifecycle.

The Engine owns the vector index, its snapshot store, the catalog handle, the
optional keyword index, the search coordinator and the usage tracker. It is
constructed once at process start (restoring the index snapshot) and closed
at shutdown; request-handling code receives it by handle rather than touching
package-level state.
*/
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/emcpnexus/nexus-discovery/internal/catalog"
	"github.com/emcpnexus/nexus-discovery/internal/config"
	"github.com/emcpnexus/nexus-discovery/internal/embedding"
	"github.com/emcpnexus/nexus-discovery/internal/pricing"
	"github.com/emcpnexus/nexus-discovery/internal/reputation"
	"github.com/emcpnexus/nexus-discovery/internal/search"
	"github.com/emcpnexus/nexus-discovery/internal/usage"
	"github.com/emcpnexus/nexus-discovery/internal/vector"
)

// demandWindow is the look-back window for the pricing demand signal.
const demandWindow = 24 * time.Hour

// Engine is the hybrid tool-discovery engine.
type Engine struct {
	cfg         *config.Config
	embedder    embedding.Client
	index       *vector.Index
	catalog     catalog.Catalog
	keyword     *search.KeywordIndex
	coordinator *search.Coordinator
	tracker     *usage.Tracker
}

// New constructs an engine from its collaborators.
//
// The vector index is restored from the snapshot store under cfg.Index.DataDir;
// a corrupt or missing snapshot starts empty. When the keyword index is
// enabled, the full catalog is indexed at startup.
func New(cfg *config.Config, embedder embedding.Client, cat catalog.Catalog) (*Engine, error) {
	store, err := vector.NewSnapshotStore(cfg.Index.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	index := vector.NewPersistentIndex(cfg.Embedding.Dimension, vector.Mode(cfg.Index.Mode), store)
	index.SetThreshold(cfg.Index.SimilarityThreshold)

	var keyword *search.KeywordIndex
	if cfg.Search.KeywordIndex {
		keyword, err = search.NewKeywordIndex()
		if err != nil {
			return nil, fmt.Errorf("failed to create keyword index: %w", err)
		}

		tools, err := cat.ListTools()
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog for keyword index: %w", err)
		}
		if err := keyword.IndexAll(tools); err != nil {
			return nil, fmt.Errorf("failed to build keyword index: %w", err)
		}
	}

	coordinator := search.NewCoordinator(embedder, index, cat, search.Options{
		Keyword:            keyword,
		DefaultLimit:       cfg.Search.DefaultLimit,
		MostRecentFallback: cfg.Search.MostRecentFallback,
	})

	return &Engine{
		cfg:         cfg,
		embedder:    embedder,
		index:       index,
		catalog:     cat,
		keyword:     keyword,
		coordinator: coordinator,
		tracker:     usage.NewTracker(cat),
	}, nil
}

// Close flushes pending usage events and releases resources.
func (e *Engine) Close() error {
	e.tracker.Stop()

	if e.keyword != nil {
		if err := e.keyword.Close(); err != nil {
			log.Printf("Warning: failed to close keyword index: %v", err)
		}
	}

	return e.catalog.Close()
}

// IndexedTools returns the number of vectors in the semantic index.
func (e *Engine) IndexedTools() int {
	return e.index.Count()
}

// AddTool registers a tool: the catalog row is created, the tool's
// name-plus-description embedding is appended to the vector index (persisted
// before the index lock is released), and the keyword index is updated.
//
// If embedding fails the catalog row remains; the tool is still reachable
// through the lexical tier and can be re-indexed later via Reindex.
func (e *Engine) AddTool(ctx context.Context, tool *catalog.Tool) (int64, error) {
	id, err := e.catalog.CreateTool(tool)
	if err != nil {
		return 0, err
	}

	if e.keyword != nil {
		if err := e.keyword.IndexTool(*tool); err != nil {
			log.Printf("Warning: failed to add tool %d to keyword index: %v", id, err)
		}
	}

	if err := e.indexEmbedding(ctx, tool); err != nil {
		return id, fmt.Errorf("tool %d created but not semantically indexed: %w", id, err)
	}

	return id, nil
}

// Reindex re-embeds an existing tool and appends a fresh index entry.
//
// The old entry is not removed: the index is append-only, so a re-indexed
// tool occupies multiple positions. Search de-duplicates by tool id, keeping
// the best-ranked occurrence.
func (e *Engine) Reindex(ctx context.Context, toolID int64) error {
	tool, err := e.catalog.GetTool(toolID)
	if err != nil {
		return err
	}

	if e.keyword != nil {
		if err := e.keyword.IndexTool(*tool); err != nil {
			log.Printf("Warning: failed to refresh tool %d in keyword index: %v", toolID, err)
		}
	}

	return e.indexEmbedding(ctx, tool)
}

// indexEmbedding embeds a tool's text and appends it to the vector index.
func (e *Engine) indexEmbedding(ctx context.Context, tool *catalog.Tool) error {
	vec, err := e.embedder.Embed(ctx, embeddingText(tool))
	if err != nil {
		return err
	}

	position, err := e.index.Add(vec, tool.ID)
	if err != nil {
		return err
	}

	log.Printf("Tool %d indexed at position %d", tool.ID, position)
	return nil
}

// embeddingText is the canonical text embedded for a tool.
func embeddingText(tool *catalog.Tool) string {
	return tool.Name + ". " + tool.Description
}

// Search resolves a free-text query through the tiered fallback chain.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]search.Result, search.Tier, error) {
	return e.coordinator.Search(ctx, query, k)
}

// TrackUsage queues a usage event for background recording.
func (e *Engine) TrackUsage(event catalog.UsageEvent) {
	e.tracker.Track(event)
}

// RateTool records a user rating. A duplicate rating for the same (tool,
// user) pair fails with catalog.ErrRatingConflict.
func (e *Engine) RateTool(rating catalog.Rating) error {
	return e.catalog.RecordRating(rating)
}

// RecordTransaction records a monetary transaction for a tool.
func (e *Engine) RecordTransaction(tx *catalog.Transaction) error {
	return e.catalog.RecordTransaction(tx)
}

// Reputation computes the reputation score for a tool from its transaction,
// rating and usage history.
func (e *Engine) Reputation(toolID int64) (float64, error) {
	amounts, ratings, events, err := e.toolHistory(toolID)
	if err != nil {
		return 0, err
	}

	successRate, avgProcessingTime := usageAggregates(events)
	return reputation.Score(amounts, ratings, len(events), successRate, avgProcessingTime), nil
}

// Anomalous reports whether a tool's most recent daily usage is an outlier
// against its history.
func (e *Engine) Anomalous(toolID int64) (bool, error) {
	events, err := e.catalog.ToolUsage(toolID)
	if err != nil {
		return false, err
	}

	return reputation.DetectAnomaly(dailyFrequencies(events)), nil
}

// DynamicPrice computes the current price for a tool from its base cost,
// reputation and recent demand.
func (e *Engine) DynamicPrice(toolID int64) (float64, error) {
	tool, err := e.catalog.GetTool(toolID)
	if err != nil {
		return 0, err
	}

	score, err := e.Reputation(toolID)
	if err != nil {
		return 0, err
	}

	recentUsage, err := e.catalog.CountRecentUsage(toolID, time.Now().Add(-demandWindow))
	if err != nil {
		return 0, err
	}

	return pricing.DynamicPrice(tool.Cost, score, recentUsage), nil
}

// SubscriptionPlans returns the subscription tiers offered for a tool.
func (e *Engine) SubscriptionPlans(toolID int64) map[string]pricing.Plan {
	return pricing.SubscriptionPlans(toolID)
}

// toolHistory fetches the aggregates feeding the reputation model.
func (e *Engine) toolHistory(toolID int64) ([]float64, []int, []catalog.UsageEvent, error) {
	amounts, err := e.catalog.ToolTransactionAmounts(toolID)
	if err != nil {
		return nil, nil, nil, err
	}

	ratings, err := e.catalog.ToolRatings(toolID)
	if err != nil {
		return nil, nil, nil, err
	}

	events, err := e.catalog.ToolUsage(toolID)
	if err != nil {
		return nil, nil, nil, err
	}

	return amounts, ratings, events, nil
}

// usageAggregates derives the success rate and mean processing time from a
// usage history. An empty history yields zeros.
func usageAggregates(events []catalog.UsageEvent) (successRate, avgProcessingTime float64) {
	if len(events) == 0 {
		return 0, 0
	}

	successes := 0
	var totalTime float64
	for _, event := range events {
		if event.Success {
			successes++
		}
		totalTime += event.ProcessingTime
	}

	return float64(successes) / float64(len(events)), totalTime / float64(len(events))
}

// dailyFrequencies buckets usage events into per-day call counts, oldest day
// first. Days with no usage inside the observed span count as zero, so a
// burst after a quiet period stands out.
func dailyFrequencies(events []catalog.UsageEvent) []float64 {
	if len(events) == 0 {
		return nil
	}

	first := events[0].Timestamp.UTC().Truncate(24 * time.Hour)
	last := events[len(events)-1].Timestamp.UTC().Truncate(24 * time.Hour)

	days := int(last.Sub(first).Hours()/24) + 1
	freqs := make([]float64, days)
	for _, event := range events {
		day := int(event.Timestamp.UTC().Truncate(24*time.Hour).Sub(first).Hours() / 24)
		if day >= 0 && day < days {
			freqs[day]++
		}
	}

	return freqs
}
