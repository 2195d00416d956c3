package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type httpSynth struct {
	endpoint string
	client   *http.Client
}

type httpRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice"`
	Rate   string `json:"rate,omitempty"`
	Pitch  string `json:"pitch,omitempty"`
	Volume string `json:"volume,omitempty"`
}

type httpResponse struct {
	AudioBase64 string `json:"audio_base64"`
	MIMEType    string `json:"mime_type"`
	DurationMS  int64  `json:"duration_ms"`
}

// NewHTTPSynth talks to a synthesis sidecar over HTTP. The endpoint must
// accept a JSON POST and return the rendered clip in a single JSON body.
func NewHTTPSynth(endpoint string) (Synthesizer, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid tts endpoint %q", endpoint)
	}
	return &httpSynth{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (h *httpSynth) Synthesize(ctx context.Context, req SynthRequest) (Clip, error) {
	body, err := json.Marshal(httpRequest{
		Text:   req.Text,
		Voice:  req.Profile.VoiceID,
		Rate:   req.Profile.Rate,
		Pitch:  req.Profile.Pitch,
		Volume: req.Profile.Volume,
	})
	if err != nil {
		return Clip{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return Clip{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return Clip{}, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Clip{}, fmt.Errorf("tts endpoint returned status %d", resp.StatusCode)
	}

	var decoded httpResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Clip{}, fmt.Errorf("decode tts response: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(decoded.AudioBase64)
	if err != nil {
		return Clip{}, fmt.Errorf("decode tts audio: %w", err)
	}
	mime := decoded.MIMEType
	if mime == "" {
		mime = "audio/mpeg"
	}
	return Clip{
		Audio:    audio,
		MIMEType: mime,
		Duration: time.Duration(decoded.DurationMS) * time.Millisecond,
	}, nil
}
