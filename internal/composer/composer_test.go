package composer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vaanilabs/vaani-core/internal/config"
	"github.com/vaanilabs/vaani-core/internal/document"
	"github.com/vaanilabs/vaani-core/internal/llm"
	"github.com/vaanilabs/vaani-core/internal/retrieval"
	"github.com/vaanilabs/vaani-core/internal/voice"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type scriptedGenerator struct {
	reply string
	err   error
	last  llm.Request
}

func (g *scriptedGenerator) Generate(_ context.Context, req llm.Request, consumer func(llm.Chunk) error) error {
	g.last = req
	if g.err != nil {
		return g.err
	}
	return consumer(llm.Chunk{Content: g.reply})
}

func testCfg() config.LLMConfig {
	cfg := config.Default().LLM
	cfg.MaxContextChars = 100
	return cfg
}

func candidatesOf(texts ...string) []retrieval.Candidate {
	out := make([]retrieval.Candidate, len(texts))
	for i, t := range texts {
		out[i] = retrieval.Candidate{Chunk: document.Chunk{Index: i, Text: t}}
	}
	return out
}

func TestAnswerUsesContext(t *testing.T) {
	gen := &scriptedGenerator{reply: "According to the document, voters need identification."}
	c := New(testCfg(), gen, newLogger())

	got := c.Answer(context.Background(), "what do voters need?", candidatesOf("voters need identification"))
	if got != "According to the document, voters need identification." {
		t.Fatalf("unexpected answer: %q", got)
	}
	if !strings.Contains(gen.last.Prompt, "voters need identification") {
		t.Fatalf("prompt missing chunk context: %q", gen.last.Prompt)
	}
	if !strings.Contains(gen.last.Prompt, "what do voters need?") {
		t.Fatalf("prompt missing question: %q", gen.last.Prompt)
	}
	if gen.last.System == "" {
		t.Fatal("expected persona system prompt")
	}
}

func TestAnswerFallbackOnError(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("rate limited")}
	c := New(testCfg(), gen, newLogger())

	got := c.Answer(context.Background(), "anything", candidatesOf("chunk"))
	if got != FallbackAnswer {
		t.Fatalf("expected fallback answer, got %q", got)
	}
}

func TestAnswerFallbackOnEmptyOutput(t *testing.T) {
	gen := &scriptedGenerator{reply: "   "}
	c := New(testCfg(), gen, newLogger())

	if got := c.Answer(context.Background(), "anything", candidatesOf("chunk")); got != FallbackAnswer {
		t.Fatalf("expected fallback answer, got %q", got)
	}
}

func TestAnswerTruncatesToThreeSentences(t *testing.T) {
	gen := &scriptedGenerator{reply: "One here. Two here. Three here. Four here. Five here."}
	c := New(testCfg(), gen, newLogger())

	got := c.Answer(context.Background(), "q", candidatesOf("chunk"))
	if got != "One here. Two here. Three here." {
		t.Fatalf("expected truncation to 3 sentences, got %q", got)
	}
}

func TestAnswerContextIsBounded(t *testing.T) {
	big := strings.Repeat("word ", 40) // 200 chars, over the 100-char budget
	gen := &scriptedGenerator{reply: "ok"}
	c := New(testCfg(), gen, newLogger())

	c.Answer(context.Background(), "q", candidatesOf("short chunk", big))
	if strings.Contains(gen.last.Prompt, big) {
		t.Fatal("prompt context exceeded configured budget")
	}
	if !strings.Contains(gen.last.Prompt, "short chunk") {
		t.Fatal("prompt lost the leading chunk")
	}
}

func TestTranslateEnglishIsIdentity(t *testing.T) {
	gen := &scriptedGenerator{reply: "should not be used"}
	c := New(testCfg(), gen, newLogger())

	if got := c.Translate(context.Background(), "original", voice.LanguageEnglish); got != "original" {
		t.Fatalf("expected identity translation, got %q", got)
	}
}

func TestTranslatePassthroughOnFailure(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("quota")}
	c := New(testCfg(), gen, newLogger())

	if got := c.Translate(context.Background(), "original text", voice.LanguageHindi); got != "original text" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestTranslateUsesModel(t *testing.T) {
	gen := &scriptedGenerator{reply: "अनुवादित पाठ"}
	c := New(testCfg(), gen, newLogger())

	if got := c.Translate(context.Background(), "text", voice.LanguageHindi); got != "अनुवादित पाठ" {
		t.Fatalf("unexpected translation: %q", got)
	}
	if !strings.Contains(gen.last.Prompt, "Hindi") {
		t.Fatalf("prompt must name the target language: %q", gen.last.Prompt)
	}
}

func TestIntroAndContinueCoverage(t *testing.T) {
	for _, lang := range []voice.Language{voice.LanguageEnglish, voice.LanguageHindi, voice.LanguageMarathi, voice.LanguageTamil, voice.LanguageTelugu} {
		if Intro(lang) == "" {
			t.Fatalf("missing intro for %s", lang)
		}
		if ContinuePrompt(lang) == "" {
			t.Fatalf("missing continue prompt for %s", lang)
		}
	}
}
