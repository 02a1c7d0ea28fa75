package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const geminiEmbedModel = "models/embedding-001"

// GeminiEmbedder calls the Gemini embedContent API. One call per chunk, no
// batching, so indexing latency is linear in chunk count.
type GeminiEmbedder struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewGeminiEmbedder creates a Gemini embedder. baseURL is the API root
// without a trailing slash (overridable for tests).
func NewGeminiEmbedder(baseURL, apiKey string) *GeminiEmbedder {
	return &GeminiEmbedder{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"taskType,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// Embed returns the 768-dimensional Gemini embedding for text.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string, task TaskType) ([]float32, error) {
	url := fmt.Sprintf("%s/v1beta/%s:embedContent?key=%s", g.BaseURL, geminiEmbedModel, g.APIKey)

	payload := geminiEmbedRequest{
		Model:    geminiEmbedModel,
		Content:  geminiContent{Parts: []geminiPart{{Text: text}}},
		TaskType: string(task),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call embedding API: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding API bad status %d: %s", resp.StatusCode, string(raw))
	}

	var embedResp geminiEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}

	if len(embedResp.Embedding.Values) != g.Dimension() {
		return nil, fmt.Errorf("embedding has size %d, expected %d", len(embedResp.Embedding.Values), g.Dimension())
	}
	return embedResp.Embedding.Values, nil
}

// Dimension returns 768, the embedding-001 output size.
func (g *GeminiEmbedder) Dimension() int { return 768 }

// Name identifies the strategy.
func (g *GeminiEmbedder) Name() string { return "gemini/embedding-001" }
