package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// RecordSearch stores a search record for analytics.
func (c *SQLiteCatalog) RecordSearch(record SearchRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	_, err := c.db.Exec(`
		INSERT INTO search_history (search_id, query_hash, tier, results_count, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`,
		record.SearchID,
		record.QueryHash,
		record.Tier,
		record.ResultsCount,
		record.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}

	return nil
}

// HashQuery creates a SHA256 hash of a query string for privacy.
func HashQuery(query string) string {
	hash := sha256.Sum256([]byte(query))
	return hex.EncodeToString(hash[:])
}
