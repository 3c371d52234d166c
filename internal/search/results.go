/*
Package search implements the tiered tool-discovery chain.

A free-text query is resolved through three tiers of decreasing precision,
evaluated strictly in order and short-circuiting on the first non-empty
result: semantic nearest-neighbor search over embeddings, a lexical fallback
(BM25 keyword index or catalog substring match), and an optional most-recent
fallback so conversational callers are never handed an empty context.
*/
package search

// Tier identifies which retrieval strategy produced a result set.
type Tier string

const (
	// TierSemantic is embedding nearest-neighbor search.
	TierSemantic Tier = "semantic"

	// TierLexical is keyword or substring matching against the catalog.
	TierLexical Tier = "lexical"

	// TierMostRecent is the last-resort newest-tools tier.
	TierMostRecent Tier = "most_recent"

	// TierNone means no tier produced results.
	TierNone Tier = "none"
)

// Result is a single discovered tool.
//
// Only the semantic tier carries a similarity score; callers must check
// HasScore before reading Score.
type Result struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	URL         string  `json:"url"`
	OwnerID     int64   `json:"owner_id"`
	Score       float64 `json:"score,omitempty"`
	HasScore    bool    `json:"-"`
}
