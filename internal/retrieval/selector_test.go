package retrieval

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/vaanilabs/vaani-core/internal/document"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testChunks(texts ...string) []document.Chunk {
	chunks := make([]document.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = document.Chunk{Index: i, Text: t}
	}
	return chunks
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("quota exceeded")
}

func TestKeywordSelectRanksByOverlap(t *testing.T) {
	chunks := testChunks(
		"the weather report for tomorrow",
		"election results announced tonight for the state",
		"election commission publishes election schedule",
	)
	got := keywordSelect("what are the election results", chunks, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Chunk.Index != 1 {
		t.Fatalf("expected chunk 1 first (election+results), got %d", got[0].Chunk.Index)
	}
	if got[1].Chunk.Index != 2 {
		t.Fatalf("expected chunk 2 second, got %d", got[1].Chunk.Index)
	}
}

func TestKeywordSelectDeterministic(t *testing.T) {
	chunks := testChunks(
		"voter registration documents",
		"voter identification cards",
		"polling station addresses",
	)
	first := keywordSelect("voter documents", chunks, 3)
	for i := 0; i < 10; i++ {
		again := keywordSelect("voter documents", chunks, 3)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("ranking not deterministic: %v vs %v", first, again)
		}
	}
}

func TestKeywordSelectTieBreakByIndex(t *testing.T) {
	chunks := testChunks(
		"rainfall totals in the north",
		"rainfall totals in the south",
	)
	got := keywordSelect("rainfall totals", chunks, 2)
	if got[0].Chunk.Index != 0 || got[1].Chunk.Index != 1 {
		t.Fatalf("equal scores must keep document order, got %d then %d",
			got[0].Chunk.Index, got[1].Chunk.Index)
	}
}

func TestKeywordSelectZeroScoreFallsBackToFirstK(t *testing.T) {
	chunks := testChunks("alpha text", "beta text", "gamma text", "delta text")
	got := keywordSelect("zzz qqq", chunks, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 fallback candidates, got %d", len(got))
	}
	if got[0].Chunk.Index != 0 || got[1].Chunk.Index != 1 {
		t.Fatalf("fallback must return first chunks in document order")
	}
	if got[0].Score != 0 || got[1].Score != 0 {
		t.Fatalf("fallback candidates must carry zero scores")
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords("What is the Election schedule?")
	want := []string{"election", "schedule"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSelectorSemanticPath(t *testing.T) {
	chunks := testChunks(
		"cricket match scores and results",
		"monsoon rainfall and flood warnings",
		"stock market index movements",
	)
	s := NewSelector(chunks, NewMockEmbedder(), newLogger())
	got := s.Select(context.Background(), "rainfall flood monsoon", 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Chunk.Index != 1 {
		t.Fatalf("semantic path should rank the rainfall chunk first, got %d", got[0].Chunk.Index)
	}
}

func TestSelectorFallsBackWhenEmbedderFails(t *testing.T) {
	chunks := testChunks("voter documents required", "unrelated sports news")
	s := NewSelector(chunks, failingEmbedder{}, newLogger())

	for i := 0; i < 3; i++ {
		got := s.Select(context.Background(), "voter documents", 1)
		if len(got) != 1 {
			t.Fatalf("fallback must still return candidates, got %d", len(got))
		}
		if got[0].Chunk.Index != 0 {
			t.Fatalf("keyword fallback should pick chunk 0, got %d", got[0].Chunk.Index)
		}
	}
}

func TestSelectorNilEmbedderUsesKeywordPath(t *testing.T) {
	chunks := testChunks("first chunk", "second chunk")
	s := NewSelector(chunks, nil, newLogger())
	got := s.Select(context.Background(), "second", 1)
	if got[0].Chunk.Index != 1 {
		t.Fatalf("expected keyword match on chunk 1, got %d", got[0].Chunk.Index)
	}
}

func TestIndexSearchTieBreak(t *testing.T) {
	chunks := testChunks("same words here", "same words here")
	index, err := BuildIndex(context.Background(), NewMockEmbedder(), chunks)
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	vectors, err := NewMockEmbedder().Embed(context.Background(), []string{"same words"})
	if err != nil {
		t.Fatalf("embed query: %v", err)
	}
	got := index.Search(vectors[0], 2)
	if got[0].Chunk.Index != 0 || got[1].Chunk.Index != 1 {
		t.Fatalf("equal similarity must keep document order")
	}
}
