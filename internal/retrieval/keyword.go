package retrieval

import (
	"sort"
	"strings"

	"github.com/vaanilabs/vaani-core/internal/document"
)

var stopWords = map[string]struct{}{
	"the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"what": {}, "how": {}, "why": {}, "when": {}, "where": {}, "who": {},
	"a": {}, "an": {}, "of": {}, "to": {},
}

const (
	fullMatchWeight    = 3
	partialMatchWeight = 1
)

// Keywords lower-cases and tokenizes a question, dropping stop words.
func Keywords(question string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, tok := range strings.Fields(strings.ToLower(question)) {
		tok = strings.Trim(tok, ".,!?;:\"'")
		if tok == "" {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// keywordSelect ranks chunks by keyword overlap: a whole-token match scores
// higher than a substring match inside a longer token. Ties break by
// ascending chunk index so the ordering is reproducible. When nothing
// matches, the first k chunks are returned in document order so the answer
// composer always has context.
func keywordSelect(question string, chunks []document.Chunk, k int) []Candidate {
	if len(chunks) == 0 || k <= 0 {
		return nil
	}
	keywords := Keywords(question)

	scored := make([]Candidate, 0, len(chunks))
	for _, chunk := range chunks {
		lower := strings.ToLower(chunk.Text)
		tokens := strings.Fields(lower)
		score := 0
		for _, kw := range keywords {
			full := 0
			for _, tok := range tokens {
				if strings.Trim(tok, ".,!?;:\"'") == kw {
					full++
				}
			}
			if full > 0 {
				score += fullMatchWeight * full
				continue
			}
			if strings.Contains(lower, kw) {
				score += partialMatchWeight
			}
		}
		if score > 0 {
			scored = append(scored, Candidate{Chunk: chunk, Score: float64(score)})
		}
	}

	if len(scored) == 0 {
		n := k
		if n > len(chunks) {
			n = len(chunks)
		}
		fallback := make([]Candidate, n)
		for i := 0; i < n; i++ {
			fallback[i] = Candidate{Chunk: chunks[i]}
		}
		return fallback
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		return scored[a].Chunk.Index < scored[b].Chunk.Index
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
