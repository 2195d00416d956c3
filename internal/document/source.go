// Package document loads the broadcast source text and slices it into
// overlapping retrieval chunks.
package document

import (
	"fmt"
	"os"
	"strings"
)

// Load reads the document at path and normalizes its whitespace so that
// downstream sentence splitting and chunking see a single flowing text.
// A missing or unreadable file is a startup error; it is never surfaced
// mid-session.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load document %s: %w", path, err)
	}
	return Normalize(string(data)), nil
}

// Normalize collapses line breaks and runs of whitespace into single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
