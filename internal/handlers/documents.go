package handlers

import (
	"net/http"

	"studybuddy/internal/contextutil"
	"studybuddy/internal/storage"
)

// DocumentsHandler handles HTTP requests listing the indexed document
// catalog. The catalog is optional; without one the listing is empty.
type DocumentsHandler struct {
	docs storage.DocumentStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(docs storage.DocumentStore) *DocumentsHandler {
	return &DocumentsHandler{docs: docs}
}

// DocumentsResponse represents the document catalog response.
type DocumentsResponse struct {
	Documents []storage.DocumentRecord `json:"documents"`
	Count     int                      `json:"count"`
	Success   bool                     `json:"success"`
}

// ServeHTTP lists every document recorded by past indexing runs.
func (h *DocumentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	resp := DocumentsResponse{Documents: []storage.DocumentRecord{}, Success: true}

	if h.docs != nil {
		docs, err := h.docs.ListAll(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "failed to list documents", "error", err)
			writeError(ctx, w, http.StatusInternalServerError, "Failed to list documents")
			return
		}
		if docs != nil {
			resp.Documents = docs
		}
	}

	resp.Count = len(resp.Documents)
	writeJSON(ctx, w, http.StatusOK, resp)
}
