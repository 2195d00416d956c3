package llm

import (
	"context"
	"time"

	"github.com/vaanilabs/vaani-core/internal/config"
)

// Request describes a language model prompt.
type Request struct {
	SessionID   string
	Prompt      string
	System      string
	Tier        string
	MaxTokens   int
	Temperature float64
}

// Chunk represents streamed model output.
type Chunk struct {
	SessionID        string
	Content          string
	Partial          bool
	PromptTokens     int
	CompletionTokens int
	Latency          time.Duration
}

// Generator defines a pluggable LLM backend.
type Generator interface {
	Generate(ctx context.Context, req Request, consumer func(Chunk) error) error
}

// OptionsFromConfig builds request defaults from config.
func OptionsFromConfig(cfg config.LLMConfig, reqTier string) Request {
	req := Request{Tier: cfg.DefaultTier, MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature}
	if reqTier != "" {
		req.Tier = reqTier
	}
	return req
}

// Collect runs a generation and accumulates the streamed chunks into one
// string. This is the shape the answer composer wants: it never consumes
// partial output.
func Collect(ctx context.Context, gen Generator, req Request) (string, error) {
	var out string
	err := gen.Generate(ctx, req, func(chunk Chunk) error {
		out += chunk.Content
		return nil
	})
	return out, err
}
