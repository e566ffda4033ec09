// Package embedding provides the text-embedding collaborator used by the
// semantic similarity sub-score. The matching engine depends only on the
// Embedder interface; the Gemini-backed implementation adds caching, retry,
// and circuit breaking around the remote call.
package embedding

import "context"

// Embedder produces a vector representation of text. Implementations must
// return an error (never a zero vector) when the backend is unavailable, so
// callers can distinguish failure from a legitimately low similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// ModelInfo represents the availability of the embedding model.
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
