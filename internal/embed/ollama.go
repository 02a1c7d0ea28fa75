package embed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// OllamaEmbedder generates embeddings with a locally served model. The
// default all-minilm model emits 384-dimensional vectors.
type OllamaEmbedder struct {
	client    *api.Client
	model     string
	dimension int
}

// NewOllamaEmbedder creates an embedder backed by the Ollama server at host.
func NewOllamaEmbedder(host, model string, dimension int) (*OllamaEmbedder, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	return &OllamaEmbedder{
		client:    api.NewClient(base, http.DefaultClient),
		model:     model,
		dimension: dimension,
	}, nil
}

// Embed returns the local model's embedding for text. Ollama has no task
// type distinction, so task is ignored.
func (o *OllamaEmbedder) Embed(ctx context.Context, text string, _ TaskType) ([]float32, error) {
	resp, err := o.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  o.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(resp.Embedding) != o.dimension {
		return nil, fmt.Errorf("embedding has size %d, expected %d", len(resp.Embedding), o.dimension)
	}

	vec := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Dimension returns the configured model output size.
func (o *OllamaEmbedder) Dimension() int { return o.dimension }

// Name identifies the strategy.
func (o *OllamaEmbedder) Name() string { return "ollama/" + o.model }
