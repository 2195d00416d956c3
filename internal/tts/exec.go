package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/mattn/go-shellwords"
)

type execSynth struct {
	cmd []string
	mu  sync.Mutex
}

type execRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice"`
	Rate   string `json:"rate"`
	Pitch  string `json:"pitch"`
	Volume string `json:"volume"`
}

type execResponse struct {
	AudioBase64 string `json:"audio_base64"`
	MIMEType    string `json:"mime_type"`
	DurationMS  int64  `json:"duration_ms"`
}

// NewExecSynth runs a subprocess per utterance: the request is written to
// stdin as JSON and the response is one JSON object on stdout.
func NewExecSynth(command string) (Synthesizer, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse tts command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("tts command empty")
	}
	return &execSynth{cmd: args}, nil
}

func (e *execSynth) Synthesize(ctx context.Context, req SynthRequest) (Clip, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	payload := execRequest{
		Text:   req.Text,
		Voice:  req.Profile.VoiceID,
		Rate:   req.Profile.Rate,
		Pitch:  req.Profile.Pitch,
		Volume: req.Profile.Volume,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return Clip{}, err
	}

	base := e.cmd[0]
	args := append([]string{}, e.cmd[1:]...)
	cmd := exec.CommandContext(ctx, base, args...)
	cmd.Stdin = bytes.NewReader(input)
	output, err := cmd.Output()
	if err != nil {
		return Clip{}, fmt.Errorf("tts exec command failed: %w", err)
	}

	var resp execResponse
	if err := json.Unmarshal(bytes.TrimSpace(output), &resp); err != nil {
		return Clip{}, fmt.Errorf("decode tts exec response: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(resp.AudioBase64)
	if err != nil {
		return Clip{}, fmt.Errorf("decode tts audio: %w", err)
	}
	mime := resp.MIMEType
	if mime == "" {
		mime = "audio/mpeg"
	}
	return Clip{
		Audio:    audio,
		MIMEType: mime,
		Duration: time.Duration(resp.DurationMS) * time.Millisecond,
	}, nil
}
