package search

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/emcpnexus/nexus-discovery/internal/catalog"
)

// KeywordIndex is an in-memory BM25 index over tool names and descriptions.
//
// It backs the lexical fallback tier when enabled, giving relevance-ranked
// keyword matches instead of plain substring hits.
type KeywordIndex struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
}

// NewKeywordIndex creates an empty in-memory keyword index.
func NewKeywordIndex() (*KeywordIndex, error) {
	index, err := bleve.NewMemOnly(buildToolMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword index: %w", err)
	}
	return &KeywordIndex{bleveIndex: index}, nil
}

// buildToolMapping creates the Bleve mapping for tool documents.
func buildToolMapping() mapping.IndexMapping {
	toolMapping := bleve.NewDocumentMapping()
	toolMapping.AddFieldMappingsAt("name", bleve.NewTextFieldMapping())
	toolMapping.AddFieldMappingsAt("description", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", toolMapping)
	return indexMapping
}

// IndexTool adds or replaces a tool document.
func (k *KeywordIndex) IndexTool(tool catalog.Tool) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	doc := map[string]interface{}{
		"name":        tool.Name,
		"description": tool.Description,
	}
	if err := k.bleveIndex.Index(strconv.FormatInt(tool.ID, 10), doc); err != nil {
		return fmt.Errorf("failed to index tool %d: %w", tool.ID, err)
	}
	return nil
}

// IndexAll indexes a batch of tools, typically the full catalog at startup.
func (k *KeywordIndex) IndexAll(tools []catalog.Tool) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	batch := k.bleveIndex.NewBatch()
	for _, tool := range tools {
		doc := map[string]interface{}{
			"name":        tool.Name,
			"description": tool.Description,
		}
		if err := batch.Index(strconv.FormatInt(tool.ID, 10), doc); err != nil {
			return fmt.Errorf("failed to batch tool %d: %w", tool.ID, err)
		}
	}

	if err := k.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to index tool batch: %w", err)
	}
	return nil
}

// Search returns up to limit tool ids ranked by BM25 relevance.
func (k *KeywordIndex) Search(query string, limit int) ([]int64, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	request := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), limit, 0, false)
	results, err := k.bleveIndex.Search(request)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	ids := make([]int64, 0, len(results.Hits))
	for _, hit := range results.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// Count returns the number of indexed tools.
func (k *KeywordIndex) Count() (uint64, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	count, err := k.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get keyword doc count: %w", err)
	}
	return count, nil
}

// Close releases index resources.
func (k *KeywordIndex) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.bleveIndex != nil {
		return k.bleveIndex.Close()
	}
	return nil
}
