// Package retrieval selects the document chunks most likely to answer a
// question: a semantic embedding path when available, with a deterministic
// keyword fallback that never fails.
package retrieval

import (
	"context"
	"hash/fnv"
	"strings"
)

// Embedder abstracts the embedding backend for the semantic path.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

const mockDimension = 64

type mockEmbedder struct{}

// NewMockEmbedder returns a deterministic local embedder: a hashed
// bag-of-words vector. Good enough for tests and offline development,
// since overlapping vocabulary yields higher cosine similarity.
func NewMockEmbedder() Embedder { return &mockEmbedder{} }

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, mockDimension)
		for _, tok := range strings.Fields(strings.ToLower(text)) {
			h := fnv.New32a()
			h.Write([]byte(tok))
			vec[h.Sum32()%mockDimension]++
		}
		vectors[i] = vec
	}
	return vectors, nil
}
