package retrieval

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vaanilabs/vaani-core/internal/document"
)

// Candidate pairs a chunk with a relevance score. Scores from the semantic
// path (cosine similarity) and the keyword path (overlap count) are never
// mixed within one query; the selector commits to one path per call.
type Candidate struct {
	Chunk document.Chunk
	Score float64
}

// Selector answers "which chunks for this question". The semantic path is
// attempted when an embedder is configured; any failure there falls back to
// keyword scoring rather than propagating.
type Selector struct {
	chunks   []document.Chunk
	embedder Embedder
	logger   *slog.Logger

	buildOnce sync.Once
	index     *Index
}

// NewSelector creates a selector over a fixed chunk set. embedder may be
// nil, which pins every query to the keyword path.
func NewSelector(chunks []document.Chunk, embedder Embedder, logger *slog.Logger) *Selector {
	return &Selector{
		chunks:   chunks,
		embedder: embedder,
		logger:   logger.With(slog.String("component", "relevance-selector")),
	}
}

// Select returns up to k candidates ordered by descending score.
func (s *Selector) Select(ctx context.Context, question string, k int) []Candidate {
	if index := s.semanticIndex(ctx); index != nil {
		vectors, err := s.embedder.Embed(ctx, []string{question})
		if err == nil && len(vectors) == 1 {
			return index.Search(vectors[0], k)
		}
		s.logger.Warn("question embedding failed, falling back to keyword scoring", slogError(err))
	}
	return keywordSelect(question, s.chunks, k)
}

// semanticIndex builds the chunk index on first use. The build is
// synchronized so concurrent sessions over the same document share one
// read-only index.
func (s *Selector) semanticIndex(ctx context.Context) *Index {
	if s.embedder == nil {
		return nil
	}
	s.buildOnce.Do(func() {
		index, err := BuildIndex(ctx, s.embedder, s.chunks)
		if err != nil {
			s.logger.Warn("semantic index build failed, keyword scoring only", slogError(err))
			return
		}
		s.index = index
		s.logger.Info("semantic index ready", slog.Int("chunks", len(s.chunks)))
	})
	return s.index
}

func slogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "embedder returned unexpected vector count")
	}
	return slog.String("error", err.Error())
}
