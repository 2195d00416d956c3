package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/vaanilabs/vaani-core/internal/document"
)

// Index is an in-memory vector index over the document chunks. It is built
// once per document and read-only afterward, so concurrent sessions may
// share it without locking.
type Index struct {
	chunks  []document.Chunk
	vectors [][]float32
}

// BuildIndex embeds every chunk through the embedder. Any backend failure
// aborts the build; callers fall back to keyword scoring.
func BuildIndex(ctx context.Context, embedder Embedder, chunks []document.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return &Index{}, nil
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		normalized[i] = normalize(v)
	}
	return &Index{chunks: chunks, vectors: normalized}, nil
}

// Search returns up to k candidates ranked by cosine similarity to the
// query vector, ties broken by ascending chunk index.
func (ix *Index) Search(query []float32, k int) []Candidate {
	if len(ix.chunks) == 0 || k <= 0 {
		return nil
	}
	q := normalize(query)
	candidates := make([]Candidate, len(ix.chunks))
	for i := range ix.chunks {
		candidates[i] = Candidate{Chunk: ix.chunks[i], Score: dot(q, ix.vectors[i])}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].Score != candidates[b].Score {
			return candidates[a].Score > candidates[b].Score
		}
		return candidates[a].Chunk.Index < candidates[b].Chunk.Index
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
