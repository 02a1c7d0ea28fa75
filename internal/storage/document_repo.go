package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentRecord is one indexed syllabus document in the catalog.
type DocumentRecord struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Filename      string    `json:"filename"`
	Department    string    `json:"department"`
	Pages         int       `json:"pages"`
	ChunkCount    int       `json:"chunk_count"`
	ChunksSkipped int       `json:"chunks_skipped"`
	IndexedAt     time.Time `json:"indexed_at"`
}

// DocumentStore defines the interface for document catalog operations.
type DocumentStore interface {
	// GetByURL gets a document by its source URL.
	// Returns nil and ErrNotFound if not found.
	GetByURL(ctx context.Context, url string) (*DocumentRecord, error)
	// Upsert inserts a new document or updates an existing one keyed by URL.
	Upsert(ctx context.Context, doc *DocumentRecord) error
	// ListAll returns every cataloged document, most recently indexed first.
	ListAll(ctx context.Context) ([]DocumentRecord, error)
}

// DocumentRepo provides methods for document catalog operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// GetByURL gets a document by its source URL.
// Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) GetByURL(ctx context.Context, url string) (*DocumentRecord, error) {
	var doc DocumentRecord
	var indexedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, url, filename, department, pages, chunk_count, chunks_skipped, indexed_at FROM documents WHERE url = ?",
		url,
	).Scan(&doc.ID, &doc.URL, &doc.Filename, &doc.Department, &doc.Pages, &doc.ChunkCount, &doc.ChunksSkipped, &indexedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	doc.IndexedAt, err = parseTimestamp(indexedAtStr)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// Upsert inserts a new document or updates an existing one keyed by URL.
// New documents get a generated UUID; existing documents keep their ID.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	existing, err := r.GetByURL(ctx, doc.URL)
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	if existing == nil && doc.ID == "" {
		doc.ID = uuid.New().String()
	} else if existing != nil {
		doc.ID = existing.ID
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (id, url, filename, department, pages, chunk_count, chunks_skipped, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (url) DO UPDATE SET
		 filename = excluded.filename, department = excluded.department,
		 pages = excluded.pages, chunk_count = excluded.chunk_count,
		 chunks_skipped = excluded.chunks_skipped, indexed_at = CURRENT_TIMESTAMP`,
		doc.ID, doc.URL, doc.Filename, doc.Department, doc.Pages, doc.ChunkCount, doc.ChunksSkipped,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	return nil
}

// ListAll returns every cataloged document, most recently indexed first.
func (r *DocumentRepo) ListAll(ctx context.Context) ([]DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, url, filename, department, pages, chunk_count, chunks_skipped, indexed_at FROM documents ORDER BY indexed_at DESC, url ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentRecord
	for rows.Next() {
		var doc DocumentRecord
		var indexedAtStr string
		if err := rows.Scan(&doc.ID, &doc.URL, &doc.Filename, &doc.Department, &doc.Pages, &doc.ChunkCount, &doc.ChunksSkipped, &indexedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.IndexedAt, err = parseTimestamp(indexedAtStr)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// parseTimestamp handles the DATETIME string formats SQLite emits.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse indexed_at timestamp: %w", err)
	}
	return t, nil
}
