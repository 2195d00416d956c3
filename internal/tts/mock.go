package tts

import (
	"context"
	"time"
)

type mockSynth struct {
	wordsPerMinute int
}

// NewMockSynth returns a synthesizer that produces silent clips whose
// duration is estimated from the text length.
func NewMockSynth(wordsPerMinute int) Synthesizer {
	return &mockSynth{wordsPerMinute: wordsPerMinute}
}

func (m *mockSynth) Synthesize(ctx context.Context, req SynthRequest) (Clip, error) {
	select {
	case <-ctx.Done():
		return Clip{}, ctx.Err()
	case <-time.After(10 * time.Millisecond):
	}
	return Clip{
		Audio:    []byte{},
		MIMEType: "audio/mpeg",
		Duration: EstimateDuration(req.Text, m.wordsPerMinute),
	}, nil
}
