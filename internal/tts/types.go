package tts

import (
	"context"
	"strings"
	"time"

	"github.com/vaanilabs/vaani-core/internal/voice"
)

// SynthRequest contains parameters to synthesize one utterance.
type SynthRequest struct {
	SessionID string
	Text      string
	Profile   voice.Profile
}

// Clip is the produced audio plus its measured duration. Duration is not
// known before synthesis returns.
type Clip struct {
	Audio    []byte
	MIMEType string
	Duration time.Duration
}

// Synthesizer is the contract for producing audio. Failures are per
// utterance; a failed unit is skipped, never fatal to the session.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthRequest) (Clip, error)
}

// EstimateDuration predicts speech time for text at a words-per-minute
// rate. Used by the mock backend and as the avatar fallback when a backend
// reports no duration.
func EstimateDuration(text string, wordsPerMinute int) time.Duration {
	if wordsPerMinute <= 0 {
		return 0
	}
	words := len(strings.Fields(text))
	return time.Duration(float64(words) / float64(wordsPerMinute) * float64(time.Minute))
}
