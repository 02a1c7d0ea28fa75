package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks studybuddy/internal/vectorstore VectorStore

import "context"

// Point is one embedding point: a generated integer identifier, the vector,
// and the payload carrying everything needed to render a source citation.
type Point struct {
	ID   uint64
	Vec  []float32
	Meta map[string]any
}

// SearchResult is one similarity hit with its cosine score and payload.
type SearchResult struct {
	ID    uint64
	Score float32
	Meta  map[string]any
}

// VectorStore defines the index store operations. Vector dimensionality is
// fixed when a collection is created; writes with a different size fail.
type VectorStore interface {
	// Recreate destructively replaces the collection: any existing
	// collection of the same name is deleted before a fresh one is
	// created with the given vector size and cosine distance.
	Recreate(ctx context.Context, collection string, vectorSize int) error

	// Upsert writes a batch of points.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the k nearest points by cosine similarity, scores
	// non-increasing in rank order.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// Scroll reads up to limit points with id >= offset, payloads
	// included, for client-side metadata enumeration.
	Scroll(ctx context.Context, collection string, limit uint32, offset uint64) ([]SearchResult, error)

	// Count returns the number of points in the collection.
	Count(ctx context.Context, collection string) (uint64, error)

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
