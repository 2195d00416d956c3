package document

import (
	"errors"
	"strings"
)

// Chunk is one overlapping window of the document used as a retrieval unit.
// Offsets are word positions into the normalized document; with a positive
// overlap, each chunk's end offset reaches past the next chunk's start.
type Chunk struct {
	Index       int
	Text        string
	StartOffset int
	EndOffset   int
}

// ErrChunkParams is returned when the window parameters cannot produce
// forward progress.
var ErrChunkParams = errors.New("chunk size must exceed overlap and overlap must be positive")

// BuildChunks slides a window of sizeWords words over the document,
// advancing by sizeWords-overlapWords each step. The trailing window is
// emitted even when shorter than sizeWords so no content is dropped.
// An empty document yields no chunks.
func BuildChunks(text string, sizeWords, overlapWords int) ([]Chunk, error) {
	if overlapWords <= 0 || sizeWords <= overlapWords {
		return nil, ErrChunkParams
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	stride := sizeWords - overlapWords
	var chunks []Chunk
	for start := 0; start < len(words); start += stride {
		end := start + sizeWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, Chunk{
			Index:       len(chunks),
			Text:        strings.Join(words[start:end], " "),
			StartOffset: start,
			EndOffset:   end,
		})
		if end == len(words) {
			break
		}
	}
	return chunks, nil
}
