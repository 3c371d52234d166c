/*
Package embedding provides the text-to-vector client used by semantic search.

The embedding model itself is an external collaborator reached over an
OpenAI-compatible HTTP endpoint. A caching wrapper avoids re-embedding
identical text within a process lifetime.
*/
package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmbeddingFailed indicates the embedding endpoint could not produce a
// vector. Callers on the search path degrade to the lexical tier instead of
// propagating this to the user.
var ErrEmbeddingFailed = errors.New("embedding failed")

// Client converts text into a fixed-dimension embedding vector.
//
// Implementations must be deterministic for identical input and must fail
// explicitly rather than truncate or pad on model errors.
type Client interface {
	// Embed returns the embedding vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the fixed vector dimension produced by this client.
	Dimension() int
}

// DimensionError reports a vector whose length does not match the expected
// dimension.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: want %d, got %d", e.Want, e.Got)
}
