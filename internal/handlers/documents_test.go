package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"studybuddy/internal/storage"
)

func TestDocumentsHandler_ListsCatalog(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	repo := storage.NewDocumentRepo(db)
	doc := &storage.DocumentRecord{
		URL:        "https://example.edu/cse.pdf",
		Filename:   "cse.pdf",
		Department: "Computer Science",
		Pages:      8,
		ChunkCount: 12,
	}
	if err := repo.Upsert(context.Background(), doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	handler := NewDocumentsHandler(repo)
	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp DocumentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Count != 1 || resp.Documents[0].Filename != "cse.pdf" {
		t.Errorf("response = %+v, want the cataloged document", resp)
	}
}

func TestDocumentsHandler_NoCatalogConfigured(t *testing.T) {
	handler := NewDocumentsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp DocumentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Count != 0 || resp.Documents == nil {
		t.Errorf("response = %+v, want empty list, not null", resp)
	}
}
