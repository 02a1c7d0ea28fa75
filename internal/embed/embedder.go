// Package embed maps chunk text to fixed-length numeric vectors. Two
// interchangeable strategies exist: the remote Gemini embedding API and a
// local model served by Ollama. Indexing and querying must use the same
// strategy or similarity scores are meaningless.
package embed

import "context"

// TaskType distinguishes document indexing from query embedding for
// providers that condition on it.
type TaskType string

const (
	TaskDocument TaskType = "RETRIEVAL_DOCUMENT"
	TaskQuery    TaskType = "RETRIEVAL_QUERY"
)

// Embedder maps one text string to one fixed-length vector. An embedding
// failure is an error: callers decide whether to skip the unit of work, the
// embedder never substitutes a placeholder vector.
type Embedder interface {
	// Embed returns the vector for text.
	Embed(ctx context.Context, text string, task TaskType) ([]float32, error)

	// Dimension returns the fixed output vector length.
	Dimension() int

	// Name identifies the strategy for logging and health reporting.
	Name() string
}
