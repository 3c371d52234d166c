/*
Package catalog implements the relational store behind the discovery engine.

The engine itself only needs a narrow query capability over the tool catalog
(fetch-by-id-set, fetch-by-substring, fetch-most-recent) plus the usage,
rating and transaction history that feeds the scoring models. That contract
is captured by the Catalog interface; SQLiteCatalog is the concrete
implementation backed by modernc.org/sqlite (pure Go, CGo-free).
*/
package catalog

import (
	"errors"
	"time"
)

var (
	// ErrToolNotFound is returned when a tool id does not exist.
	ErrToolNotFound = errors.New("tool not found")

	// ErrRatingConflict is returned when a user rates the same tool twice.
	// At most one rating per (tool, user) pair is allowed.
	ErrRatingConflict = errors.New("tool already rated by this user")

	// ErrInvalidRating is returned for rating values outside 0-5.
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
)

// Tool is a marketplace tool record.
type Tool struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cost        float64   `json:"cost"`
	URL         string    `json:"url"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Rating is a single user rating for a tool (0-5).
type Rating struct {
	ToolID int64 `json:"tool_id"`
	UserID int64 `json:"user_id"`
	Value  int   `json:"value"`
}

// Transaction is a monetary transaction associated with a tool.
type Transaction struct {
	ID       int64     `json:"id"`
	ToolID   int64     `json:"tool_id"`
	UserID   int64     `json:"user_id"`
	Amount   float64   `json:"amount"`
	Currency string    `json:"currency"`
	Method   string    `json:"method"`
	Created  time.Time `json:"created"`
}

// UsageEvent is a single tool invocation.
type UsageEvent struct {
	ID             int64     `json:"id"`
	ToolID         int64     `json:"tool_id"`
	UserID         int64     `json:"user_id"`
	Success        bool      `json:"success"`
	ProcessingTime float64   `json:"processing_time"`
	Timestamp      time.Time `json:"timestamp"`
}

// SearchRecord captures one search request for analytics. The query itself
// is stored as a SHA256 hash for privacy.
type SearchRecord struct {
	SearchID     string    `json:"search_id"`
	QueryHash    string    `json:"query_hash"`
	Tier         string    `json:"tier"`
	ResultsCount int       `json:"results_count"`
	Timestamp    time.Time `json:"timestamp"`
}

// Catalog defines the storage operations consumed by the discovery engine.
type Catalog interface {
	// CreateTool inserts a tool and returns its assigned id.
	CreateTool(tool *Tool) (int64, error)

	// GetTool fetches a single tool by id.
	GetTool(id int64) (*Tool, error)

	// ListTools returns all tools ordered by id ascending.
	ListTools() ([]Tool, error)

	// FetchByIDs returns the tools matching ids. Row order is not
	// guaranteed to follow the input order; callers that need a specific
	// ranking must re-sort.
	FetchByIDs(ids []int64) ([]Tool, error)

	// FetchBySubstring returns up to limit tools whose name or description
	// contains pattern, case-insensitively, ordered by id.
	FetchBySubstring(pattern string, limit int) ([]Tool, error)

	// FetchMostRecent returns up to limit tools ordered by creation time
	// descending.
	FetchMostRecent(limit int) ([]Tool, error)

	// RecordRating stores a rating. A second rating from the same user for
	// the same tool fails with ErrRatingConflict.
	RecordRating(rating Rating) error

	// ToolRatings returns all rating values for a tool.
	ToolRatings(toolID int64) ([]int, error)

	// RecordTransaction stores a transaction.
	RecordTransaction(tx *Transaction) error

	// ToolTransactionAmounts returns all transaction amounts for a tool.
	ToolTransactionAmounts(toolID int64) ([]float64, error)

	// RecordUsage stores a usage event.
	RecordUsage(event *UsageEvent) error

	// ToolUsage returns the usage history for a tool, oldest first.
	ToolUsage(toolID int64) ([]UsageEvent, error)

	// CountRecentUsage counts usage events for a tool since a given time.
	CountRecentUsage(toolID int64, since time.Time) (int, error)

	// RecordSearch stores a search record for analytics.
	RecordSearch(record SearchRecord) error

	// Close closes the underlying database.
	Close() error
}
