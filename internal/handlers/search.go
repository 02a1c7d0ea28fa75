package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"studybuddy/internal/contextutil"
	"studybuddy/internal/rag"
)

// SearchHandler handles HTTP requests for raw similarity search.
type SearchHandler struct {
	engine *rag.Engine
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(engine *rag.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

// SearchRequest represents the HTTP request payload for searches.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse represents the HTTP response payload for searches.
type SearchResponse struct {
	Results []rag.SearchHit `json:"results"`
	Count   int             `json:"count"`
	Success bool            `json:"success"`
}

// ServeHTTP returns the raw nearest chunks for a query, no model involved.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		logger.WarnContext(ctx, "empty query in request")
		writeError(ctx, w, http.StatusBadRequest, "Query is required")
		return
	}

	results, err := h.engine.Search(ctx, req.Query)
	if err != nil {
		handleEngineError(ctx, w, err, "Failed to search")
		return
	}

	if results == nil {
		results = []rag.SearchHit{}
	}
	writeJSON(ctx, w, http.StatusOK, SearchResponse{
		Results: results,
		Count:   len(results),
		Success: true,
	})
}
