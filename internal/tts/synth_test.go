package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vaanilabs/vaani-core/internal/voice"
)

func TestEstimateDuration(t *testing.T) {
	d := EstimateDuration("one two three four five six seven", 140)
	want := time.Duration(float64(7) / 140.0 * float64(time.Minute))
	if d != want {
		t.Fatalf("duration = %v, want %v", d, want)
	}
	if got := EstimateDuration("anything", 0); got != 0 {
		t.Fatalf("zero rate should yield zero duration, got %v", got)
	}
	if got := EstimateDuration("", 140); got != 0 {
		t.Fatalf("empty text should yield zero duration, got %v", got)
	}
}

func TestMockSynthEstimates(t *testing.T) {
	synth := NewMockSynth(140)
	clip, err := synth.Synthesize(context.Background(), SynthRequest{
		Text:    "breaking news from the capital today",
		Profile: voice.Profile{VoiceID: "en-IN-NeerjaNeural"},
	})
	if err != nil {
		t.Fatalf("mock synth failed: %v", err)
	}
	if clip.Duration <= 0 {
		t.Fatalf("expected positive duration, got %v", clip.Duration)
	}
	if clip.MIMEType != "audio/mpeg" {
		t.Fatalf("unexpected mime type %q", clip.MIMEType)
	}
}

func TestMockSynthHonorsContext(t *testing.T) {
	synth := NewMockSynth(140)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := synth.Synthesize(ctx, SynthRequest{Text: "hello"}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestNewExecSynthRejectsBadCommand(t *testing.T) {
	if _, err := NewExecSynth(""); err == nil {
		t.Fatal("expected error for empty command")
	}
	if _, err := NewExecSynth("speak 'unterminated"); err == nil {
		t.Fatal("expected error for unparseable command")
	}
}

func TestHTTPSynth(t *testing.T) {
	audio := []byte("fake-mp3-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req httpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Voice != "hi-IN-SwaraNeural" {
			t.Errorf("voice = %q", req.Voice)
		}
		json.NewEncoder(w).Encode(httpResponse{
			AudioBase64: base64.StdEncoding.EncodeToString(audio),
			MIMEType:    "audio/mpeg",
			DurationMS:  2400,
		})
	}))
	defer server.Close()

	synth, err := NewHTTPSynth(server.URL)
	if err != nil {
		t.Fatalf("new http synth: %v", err)
	}
	clip, err := synth.Synthesize(context.Background(), SynthRequest{
		Text:    "आज की मुख्य खबर",
		Profile: voice.Profile{VoiceID: "hi-IN-SwaraNeural", Rate: "+15%"},
	})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(clip.Audio) != string(audio) {
		t.Fatalf("audio mismatch")
	}
	if clip.Duration != 2400*time.Millisecond {
		t.Fatalf("duration = %v", clip.Duration)
	}
}

func TestHTTPSynthErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	synth, err := NewHTTPSynth(server.URL)
	if err != nil {
		t.Fatalf("new http synth: %v", err)
	}
	if _, err := synth.Synthesize(context.Background(), SynthRequest{Text: "hello"}); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestNewHTTPSynthRejectsBadEndpoint(t *testing.T) {
	if _, err := NewHTTPSynth("not a url"); err == nil {
		t.Fatal("expected error for invalid endpoint")
	}
}
