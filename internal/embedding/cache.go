package embedding

import (
	"context"
	"sync"
)

// CachedClient wraps a Client with an in-memory cache keyed by input text.
//
// Embedding endpoints are deterministic for identical input, so cached
// vectors never go stale within a process lifetime.
type CachedClient struct {
	inner Client
	cache map[string][]float32
	mu    sync.RWMutex
}

// NewCachedClient wraps inner with an in-memory embedding cache.
func NewCachedClient(inner Client) *CachedClient {
	return &CachedClient{
		inner: inner,
		cache: make(map[string][]float32),
	}
}

// Dimension returns the wrapped client's dimension.
func (c *CachedClient) Dimension() int {
	return c.inner.Dimension()
}

// Embed returns the cached vector for text, calling the wrapped client on a
// miss. Failed embeddings are not cached.
func (c *CachedClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.RLock()
	if vec, ok := c.cache[text]; ok {
		c.mu.RUnlock()
		return vec, nil
	}
	c.mu.RUnlock()

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[text] = vec
	c.mu.Unlock()

	return vec, nil
}

// ClearCache drops all cached embeddings.
func (c *CachedClient) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string][]float32)
}
