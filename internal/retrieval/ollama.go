package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type ollamaEmbedder struct {
	endpoint string
	model    string
}

// NewOllamaEmbedder embeds text via an Ollama server's embeddings API.
func NewOllamaEmbedder(endpoint, model string) Embedder {
	return &ollamaEmbedder{endpoint: endpoint, model: model}
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (g *ollamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		body, err := json.Marshal(ollamaEmbedRequest{Model: g.model, Prompt: text})
		if err != nil {
			return nil, err
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/api/embeddings", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		var decoded ollamaEmbedResponse
		err = json.NewDecoder(resp.Body).Decode(&decoded)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("ollama embeddings returned status %s", resp.Status)
		}
		if len(decoded.Embedding) == 0 {
			return nil, fmt.Errorf("ollama embeddings returned empty vector")
		}
		vectors = append(vectors, decoded.Embedding)
	}
	return vectors, nil
}
