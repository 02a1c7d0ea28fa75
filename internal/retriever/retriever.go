package retriever

import (
	"context"
	"fmt"

	"studybuddy/internal/contextutil"
	"studybuddy/internal/embed"
	"studybuddy/internal/vectorstore"
)

// Hit is one retrieved chunk with the payload fields needed to render the
// context block and a source citation.
type Hit struct {
	Text       string
	Department string
	Filename   string
	URL        string
	Unit       string
	Subject    string
	ChunkIndex int
	Score      float32
}

// Source is a citation entry for the API response.
type Source struct {
	Department string `json:"department"`
	Filename   string `json:"filename"`
	Unit       string `json:"unit,omitempty"`
	Subject    string `json:"subject,omitempty"`
}

// Retriever embeds a query and returns the nearest stored chunks. The
// embedding strategy must match the one used at indexing time; that
// consistency is the wiring's obligation, not enforced here.
type Retriever struct {
	embedder   embed.Embedder
	store      vectorstore.VectorStore
	collection string
}

// New creates a Retriever.
func New(embedder embed.Embedder, store vectorstore.VectorStore, collection string) *Retriever {
	return &Retriever{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// Retrieve returns the top-k chunks for query, scores non-increasing. A
// failing or empty index yields an empty result with no error: callers
// treat empty context as "no knowledge available", not as a failure. A
// failing query embedding is an error, because searching with a bogus
// vector would silently return garbage.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Hit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	vec, err := r.embedder.Embed(ctx, query, embed.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := r.store.Search(ctx, r.collection, vec, k)
	if err != nil {
		logger.WarnContext(ctx, "vector search failed, returning empty context", "error", err)
		return nil, nil
	}

	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		hits = append(hits, hitFromMeta(res))
	}

	logger.InfoContext(ctx, "retrieval completed", "k", k, "hits", len(hits))
	return hits, nil
}

// Sources builds the citation list for hits, deduplicated by department:
// the first hit per department wins, later hits from an already cited
// department stay in context but are not re-cited.
func Sources(hits []Hit) []Source {
	seen := make(map[string]bool, len(hits))
	sources := make([]Source, 0, len(hits))
	for _, h := range hits {
		if seen[h.Department] {
			continue
		}
		seen[h.Department] = true
		sources = append(sources, Source{
			Department: h.Department,
			Filename:   h.Filename,
			Unit:       h.Unit,
			Subject:    h.Subject,
		})
	}
	return sources
}

func hitFromMeta(res vectorstore.SearchResult) Hit {
	h := Hit{Score: res.Score}
	h.Text, _ = res.Meta["text"].(string)
	h.Department, _ = res.Meta["department"].(string)
	h.Filename, _ = res.Meta["filename"].(string)
	h.URL, _ = res.Meta["url"].(string)
	h.Unit, _ = res.Meta["unit"].(string)
	h.Subject, _ = res.Meta["subject"].(string)
	switch v := res.Meta["chunk_index"].(type) {
	case int64:
		h.ChunkIndex = int(v)
	case float64:
		h.ChunkIndex = int(v)
	}
	return h
}
