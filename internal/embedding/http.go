package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// HTTPClient talks to an OpenAI-compatible /embeddings endpoint.
type HTTPClient struct {
	baseURL    string
	model      string
	apiKey     string
	dimension  int
	httpClient *http.Client
}

// NewHTTPClient creates an embedding client for the given endpoint.
func NewHTTPClient(baseURL, model, apiKey string, dimension int) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		apiKey:    apiKey,
		dimension: dimension,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}
}

// Dimension returns the configured embedding dimension.
func (c *HTTPClient) Dimension() int {
	return c.dimension
}

// embeddingsRequest is the request body for the embeddings endpoint.
type embeddingsRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// embeddingsResponse is the subset of the response we consume.
type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed requests an embedding vector for text.
//
// The returned vector is validated against the configured dimension: a
// mismatched response is an error, never silently truncated or padded.
func (c *HTTPClient) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingsRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrEmbeddingFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: endpoint returned %d: %s", ErrEmbeddingFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrEmbeddingFailed, err)
	}

	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("%w: response contained no embeddings", ErrEmbeddingFailed)
	}

	vector := parsed.Data[0].Embedding
	if len(vector) != c.dimension {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, &DimensionError{Want: c.dimension, Got: len(vector)})
	}

	return vector, nil
}
