/*
Package vector implements an exact nearest-neighbor index over tool embeddings.

The index is an exhaustive linear scan over a flat collection of fixed-dimension
float32 vectors, which is sufficient and correct at marketplace scale. Two
distance modes are supported: squared euclidean distance, and inner-product
similarity over L2-normalized vectors (equivalent to cosine similarity).

The index and its position-to-tool mapping are the one piece of shared mutable
state in the engine. Add serializes writers and persists the snapshot before
releasing the lock; Search takes a read lock over committed state.
*/
package vector

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
)

// Mode selects the distance function used by the index.
type Mode string

const (
	// ModeL2 ranks by squared euclidean distance, ascending. The square
	// root is skipped since only relative ordering matters.
	ModeL2 Mode = "l2"

	// ModeInnerProduct ranks by inner product over L2-normalized vectors,
	// descending. Vectors are normalized at add and query time, making the
	// inner product equivalent to cosine similarity.
	ModeInnerProduct Mode = "ip"
)

var (
	// ErrDimensionMismatch is returned when a vector's length does not
	// match the index dimension. The operation fails; the index is intact.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidLimit is returned when a negative result limit is given.
	ErrInvalidLimit = errors.New("result limit must not be negative")
)

// Match is a single nearest-neighbor result.
type Match struct {
	// ToolID is the catalog identifier mapped from the matched position.
	ToolID int64

	// Position is the insertion-order slot of the matched vector.
	Position int

	// Score is the squared euclidean distance in l2 mode (smaller is
	// better) or the inner-product similarity in ip mode (larger is better).
	Score float64
}

// Index is an append-only nearest-neighbor index with a parallel
// position-to-toolID mapping.
//
// Positions are dense, zero-based and monotonically assigned. The same tool
// may legitimately occupy multiple positions when re-indexed; no
// de-duplication is performed.
type Index struct {
	mode      Mode
	dimension int

	// threshold filters matches before truncation to k. In l2 mode a
	// match must have distance <= threshold; in ip mode similarity >=
	// threshold. Zero disables filtering.
	threshold float64

	vectors [][]float32
	toolIDs []int64

	store *SnapshotStore
	mu    sync.RWMutex
}

// NewIndex creates an empty index with the given dimension and mode.
func NewIndex(dimension int, mode Mode) *Index {
	return &Index{
		mode:      mode,
		dimension: dimension,
	}
}

// NewPersistentIndex creates an index backed by a snapshot store, restoring
// any prior snapshot. A corrupt or missing snapshot yields an empty index.
func NewPersistentIndex(dimension int, mode Mode, store *SnapshotStore) *Index {
	idx := NewIndex(dimension, mode)
	idx.store = store

	snap, err := store.Load(dimension)
	if err != nil {
		// Self-heal: availability over strict recovery.
		log.Printf("Warning: failed to load index snapshot, starting empty: %v", err)
		return idx
	}

	idx.vectors = snap.Vectors
	idx.toolIDs = snap.ToolIDs
	if len(idx.vectors) > 0 {
		log.Printf("Index snapshot loaded with %d vectors", len(idx.vectors))
	}
	return idx
}

// SetThreshold sets the match threshold applied by Search. Zero disables it.
func (idx *Index) SetThreshold(threshold float64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.threshold = threshold
}

// Dimension returns the fixed vector dimension.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// Mode returns the distance mode.
func (idx *Index) Mode() Mode {
	return idx.mode
}

// Count returns the number of stored vectors.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Add appends a vector and its tool mapping, returning the assigned position.
//
// The append and the snapshot save happen inside one critical section so a
// successful Add is durable before the lock is released. A snapshot write
// failure is logged and does not fail the Add; the in-memory state has
// already committed.
func (idx *Index) Add(vec []float32, toolID int64) (int, error) {
	if len(vec) != idx.dimension {
		return 0, fmt.Errorf("%w: want %d, got %d", ErrDimensionMismatch, idx.dimension, len(vec))
	}

	stored := make([]float32, len(vec))
	copy(stored, vec)
	if idx.mode == ModeInnerProduct {
		normalize(stored)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.vectors = append(idx.vectors, stored)
	idx.toolIDs = append(idx.toolIDs, toolID)
	position := len(idx.vectors) - 1

	if idx.store != nil {
		snap := &Snapshot{Dimension: idx.dimension, Vectors: idx.vectors, ToolIDs: idx.toolIDs}
		if err := idx.store.Save(snap); err != nil {
			log.Printf("Warning: failed to persist index snapshot: %v", err)
		}
	}

	return position, nil
}

// Search returns the k nearest stored vectors to query, best first.
//
// Fewer than k stored vectors returns all of them; an empty index returns an
// empty list. Ties are broken by ascending position so results are
// deterministic. When a threshold is configured, failing candidates are
// excluded entirely before truncation to k.
func (idx *Index) Search(query []float32, k int) ([]Match, error) {
	if k < 0 {
		return nil, ErrInvalidLimit
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrDimensionMismatch, idx.dimension, len(query))
	}

	q := query
	if idx.mode == ModeInnerProduct {
		q = make([]float32, len(query))
		copy(q, query)
		normalize(q)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	matches := make([]Match, 0, len(idx.vectors))
	for pos, vec := range idx.vectors {
		var score float64
		switch idx.mode {
		case ModeInnerProduct:
			score = innerProduct(q, vec)
		default:
			score = squaredL2(q, vec)
		}

		if !idx.passesThreshold(score) {
			continue
		}

		matches = append(matches, Match{ToolID: idx.toolIDs[pos], Position: pos, Score: score})
	}

	// Stable sort preserves ascending-position order among equal scores.
	if idx.mode == ModeInnerProduct {
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	} else {
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score < matches[j].Score })
	}

	if len(matches) > k {
		matches = matches[:k]
	}

	return matches, nil
}

// passesThreshold reports whether a score survives the configured cutoff.
// Callers must hold at least a read lock.
func (idx *Index) passesThreshold(score float64) bool {
	if idx.threshold == 0 {
		return true
	}
	if idx.mode == ModeInnerProduct {
		return score >= idx.threshold
	}
	return score <= idx.threshold
}

// squaredL2 computes the squared euclidean distance between two vectors.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// innerProduct computes the dot product of two vectors.
func innerProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// normalize scales a vector to unit L2 norm in place.
// A zero vector is left unchanged.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}
