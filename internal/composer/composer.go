// Package composer builds prompts from retrieved chunks and turns language
// model output into broadcast-ready answer and translation text. Model
// failures degrade to canned or passthrough text; they never stall a
// session.
package composer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vaanilabs/vaani-core/internal/config"
	"github.com/vaanilabs/vaani-core/internal/llm"
	"github.com/vaanilabs/vaani-core/internal/narration"
	"github.com/vaanilabs/vaani-core/internal/retrieval"
	"github.com/vaanilabs/vaani-core/internal/voice"
)

const maxAnswerSentences = 3

type Composer struct {
	cfg    config.LLMConfig
	gen    llm.Generator
	logger *slog.Logger
}

func New(cfg config.LLMConfig, gen llm.Generator, logger *slog.Logger) *Composer {
	return &Composer{
		cfg:    cfg,
		gen:    gen,
		logger: logger.With(slog.String("component", "answer-composer")),
	}
}

// Answer produces a short spoken answer to the question from the candidate
// chunks. It always returns usable text: model failure or empty output
// yields the canned fallback.
func (c *Composer) Answer(ctx context.Context, question string, candidates []retrieval.Candidate) string {
	contextText := c.boundedContext(candidates)

	req := llm.OptionsFromConfig(c.cfg, "fast")
	req.System = anchorPersona
	req.Prompt = answerPrompt(question, contextText)

	text, err := llm.Collect(ctx, c.gen, req)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		c.logger.Warn("answer generation failed, using fallback", slogError(err))
		return FallbackAnswer
	}
	return truncateSentences(text, maxAnswerSentences)
}

// Translate renders text in the target language. English is the identity;
// any model failure passes the original text through untranslated so
// narration can always proceed.
func (c *Composer) Translate(ctx context.Context, text string, lang voice.Language) string {
	if lang == voice.LanguageEnglish {
		return text
	}

	req := llm.OptionsFromConfig(c.cfg, "balanced")
	req.Prompt = translatePrompt(text, lang)
	req.MaxTokens = 0 // translations need the full document length

	translated, err := llm.Collect(ctx, c.gen, req)
	translated = strings.TrimSpace(translated)
	if err != nil || translated == "" {
		c.logger.Warn("translation failed, narrating original text",
			slog.String("language", string(lang)), slogError(err))
		return text
	}
	return translated
}

// boundedContext joins candidate chunk texts up to the configured prompt
// budget, keeping whole chunks in rank order.
func (c *Composer) boundedContext(candidates []retrieval.Candidate) string {
	var b strings.Builder
	for _, cand := range candidates {
		if b.Len() > 0 {
			if b.Len()+len(cand.Chunk.Text)+2 > c.cfg.MaxContextChars {
				break
			}
			b.WriteString("\n\n")
		} else if len(cand.Chunk.Text) > c.cfg.MaxContextChars {
			return cand.Chunk.Text[:c.cfg.MaxContextChars]
		}
		b.WriteString(cand.Chunk.Text)
	}
	return b.String()
}

func truncateSentences(text string, max int) string {
	units := narration.Segment(text, 1)
	if len(units) <= max {
		return text
	}
	return narration.Text(units[:max], 0)
}

func slogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "empty model output")
	}
	return slog.String("error", err.Error())
}
