package indexer

import (
	"context"
	"fmt"
	"time"

	"studybuddy/internal/chunker"
	"studybuddy/internal/contextutil"
	"studybuddy/internal/department"
	"studybuddy/internal/embed"
	"studybuddy/internal/fetcher"
	"studybuddy/internal/storage"
	"studybuddy/internal/vectorstore"
)

const (
	// batchSize is the number of points written to the index per upsert.
	batchSize = 20
	// maxUpsertAttempts bounds retries for a failing batch before it is
	// dropped and the run continues.
	maxUpsertAttempts = 3
	// defaultRetryBackoff is the fixed wait between upsert attempts.
	defaultRetryBackoff = 2 * time.Second
)

// Fetcher downloads a document to a local directory and returns its path.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL, destDir string) (string, error)
}

// Extractor pulls plain text and a page count out of a downloaded document.
type Extractor interface {
	Text(path string) (string, error)
	NumPages(path string) (int, error)
}

// Stats summarizes an indexing run.
type Stats struct {
	Documents     int
	Failed        int
	Chunks        int
	ChunksSkipped int
	BatchesLost   int
}

// Deps holds everything the pipeline needs. DocStore may be nil when no
// catalog database is configured.
type Deps struct {
	Fetcher   Fetcher
	Extractor Extractor
	Chunker   *chunker.Chunker
	Embedder  embed.Embedder
	Store     vectorstore.VectorStore
	DocStore  storage.DocumentStore

	Collection   string
	DownloadsDir string

	// RetryBackoff overrides the wait between upsert attempts. Zero means
	// the default of two seconds.
	RetryBackoff time.Duration
}

// Pipeline turns a list of syllabus PDF URLs into an embedding index. One
// pipeline serves both the full-corpus and single-document flows; the
// difference is only which chunker and URL list it is handed.
type Pipeline struct {
	deps Deps
}

// New creates a Pipeline from its dependencies.
func New(deps Deps) (*Pipeline, error) {
	if deps.Fetcher == nil || deps.Extractor == nil || deps.Chunker == nil {
		return nil, fmt.Errorf("fetcher, extractor and chunker are required")
	}
	if deps.Embedder == nil || deps.Store == nil {
		return nil, fmt.Errorf("embedder and vector store are required")
	}
	if deps.Collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	if deps.RetryBackoff <= 0 {
		deps.RetryBackoff = defaultRetryBackoff
	}
	return &Pipeline{deps: deps}, nil
}

// Run rebuilds the collection from scratch and indexes every URL in order.
// The existing collection is deleted first, so a failed run leaves a
// partial index. Per-document failures are logged and skipped; the run
// only errors when the collection itself cannot be recreated.
func (p *Pipeline) Run(ctx context.Context, urls []string) (*Stats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := p.deps.Store.Recreate(ctx, p.deps.Collection, p.deps.Embedder.Dimension()); err != nil {
		return nil, fmt.Errorf("failed to recreate collection %s: %w", p.deps.Collection, err)
	}
	logger.Info("collection recreated",
		"collection", p.deps.Collection,
		"vector_size", p.deps.Embedder.Dimension(),
		"embedder", p.deps.Embedder.Name())

	stats := &Stats{}
	var pending []vectorstore.Point
	var nextID uint64

	for _, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		doc, err := p.indexDocument(ctx, rawURL, &nextID, &pending, stats)
		if err != nil {
			logger.Error("document skipped", "url", rawURL, "error", err)
			stats.Failed++
			continue
		}
		stats.Documents++

		if p.deps.DocStore != nil {
			if err := p.deps.DocStore.Upsert(ctx, doc); err != nil {
				logger.Warn("failed to catalog document", "url", rawURL, "error", err)
			}
		}
	}

	if len(pending) > 0 {
		p.flush(ctx, pending, stats)
	}

	logger.Info("indexing run complete",
		"documents", stats.Documents,
		"failed", stats.Failed,
		"chunks", stats.Chunks,
		"chunks_skipped", stats.ChunksSkipped,
		"batches_lost", stats.BatchesLost)

	return stats, nil
}

// indexDocument fetches, extracts, chunks and embeds one document, queuing
// its points into pending and flushing full batches along the way.
func (p *Pipeline) indexDocument(ctx context.Context, rawURL string, nextID *uint64, pending *[]vectorstore.Point, stats *Stats) (*storage.DocumentRecord, error) {
	logger := contextutil.LoggerFromContext(ctx)

	path, err := p.deps.Fetcher.Fetch(ctx, rawURL, p.deps.DownloadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}

	text, err := p.deps.Extractor.Text(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	pages, err := p.deps.Extractor.NumPages(path)
	if err != nil {
		pages = 0
	}

	filename := fetcher.Filename(rawURL)
	dept := department.Normalize(filename)

	chunks := p.deps.Chunker.Split(text)
	logger.Info("document chunked", "filename", filename, "department", dept, "chunks", len(chunks))

	doc := &storage.DocumentRecord{
		URL:        rawURL,
		Filename:   filename,
		Department: dept,
		Pages:      pages,
	}

	for i, chunk := range chunks {
		vec, err := p.deps.Embedder.Embed(ctx, chunk, embed.TaskDocument)
		if err != nil {
			logger.Warn("embedding failed, chunk skipped",
				"filename", filename, "chunk_index", i, "error", err)
			stats.ChunksSkipped++
			doc.ChunksSkipped++
			continue
		}

		*pending = append(*pending, vectorstore.Point{
			ID:  *nextID,
			Vec: vec,
			Meta: map[string]any{
				"text":        chunk,
				"department":  dept,
				"filename":    filename,
				"url":         rawURL,
				"chunk_index": int64(i),
				"unit":        department.ExtractUnit(chunk),
				"subject":     department.ExtractCourseCode(chunk),
			},
		})
		*nextID++
		stats.Chunks++
		doc.ChunkCount++

		if len(*pending) >= batchSize {
			p.flush(ctx, *pending, stats)
			*pending = (*pending)[:0]
		}
	}

	return doc, nil
}

// flush writes one batch, retrying on failure. A batch that still fails
// after the last attempt is dropped so the rest of the run can proceed.
func (p *Pipeline) flush(ctx context.Context, points []vectorstore.Point, stats *Stats) {
	logger := contextutil.LoggerFromContext(ctx)

	batch := make([]vectorstore.Point, len(points))
	copy(batch, points)

	var err error
	for attempt := 1; attempt <= maxUpsertAttempts; attempt++ {
		err = p.deps.Store.Upsert(ctx, p.deps.Collection, batch)
		if err == nil {
			return
		}
		logger.Warn("batch upsert failed",
			"attempt", attempt, "points", len(batch), "error", err)
		if attempt < maxUpsertAttempts {
			select {
			case <-time.After(p.deps.RetryBackoff):
			case <-ctx.Done():
				err = ctx.Err()
				attempt = maxUpsertAttempts
			}
		}
	}

	stats.BatchesLost++
	logger.Error("batch dropped after retries", "points", len(batch), "error", err)
}
