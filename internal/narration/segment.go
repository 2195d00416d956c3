// Package narration turns flowing text into sentence-level units for
// sequential delivery.
package narration

import "strings"

// Unit is one sentence scheduled for speech and avatar sync. Sequence
// numbering is assigned by Segment and preserved through pause/resume.
type Unit struct {
	Text     string
	Sequence int
}

// Segment splits text on terminal punctuation followed by whitespace.
// Empty fragments are dropped; fragments with fewer than minWords words are
// dropped too (minWords <= 1 keeps everything). A trailing fragment without
// terminal punctuation is kept rather than silently lost.
func Segment(text string, minWords int) []Unit {
	var units []Unit
	appendUnit := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if minWords > 1 && len(strings.Fields(s)) < minWords {
			return
		}
		units = append(units, Unit{Text: s, Sequence: len(units)})
	}

	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// swallow runs of terminal punctuation ("?!", "...")
		j := i
		for j+1 < len(runes) && isTerminal(runes[j+1]) {
			j++
		}
		if j+1 == len(runes) || isSpace(runes[j+1]) {
			appendUnit(string(runes[start : j+1]))
			start = j + 1
		}
		i = j
	}
	if start < len(runes) {
		appendUnit(string(runes[start:]))
	}
	return units
}

// Text joins the remaining units from cursor onward back into flowing text.
func Text(units []Unit, cursor int) string {
	if cursor < 0 || cursor >= len(units) {
		return ""
	}
	parts := make([]string, 0, len(units)-cursor)
	for _, u := range units[cursor:] {
		parts = append(parts, u.Text)
	}
	return strings.Join(parts, " ")
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '।': // devanagari danda ends Hindi/Marathi sentences
		return true
	}
	return false
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
