package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"studybuddy/internal/contextutil"
	"studybuddy/internal/llm"
	"studybuddy/internal/rag"
	"studybuddy/internal/retriever"
)

// QueryHandler handles HTTP requests for grounded question answering.
type QueryHandler struct {
	engine *rag.Engine
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine *rag.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

// QueryRequest represents the HTTP request payload for questions.
type QueryRequest struct {
	Query   string        `json:"query"`
	History []llm.Message `json:"history,omitempty"`
}

// QueryResponse represents the HTTP response payload for answers.
type QueryResponse struct {
	Response  string             `json:"response"`
	Sources   []retriever.Source `json:"sources"`
	Success   bool               `json:"success"`
	ModelUsed string             `json:"model_used"`
}

// ServeHTTP answers a question using retrieved syllabus context.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req QueryRequest
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

	result, err := h.engine.Query(ctx, req.Query, req.History)
	if err != nil {
		handleEngineError(ctx, w, err, "Failed to process query")
		return
	}

	writeJSON(ctx, w, http.StatusOK, QueryResponse{
		Response:  result.Answer,
		Sources:   result.Sources,
		Success:   true,
		ModelUsed: result.ModelUsed,
	})
}

// handleEngineError maps engine errors to HTTP status codes. Missing
// configuration is reported as a server error naming the credential; a
// failing model chain or embedding backend is a bad gateway.
func handleEngineError(ctx context.Context, w http.ResponseWriter, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "engine error", "error", err)

	var missing *rag.MissingCredentialError
	if errors.As(err, &missing) {
		writeError(ctx, w, http.StatusInternalServerError, missing.Error())
		return
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "generate") ||
		strings.Contains(errMsg, "embed") ||
		strings.Contains(errMsg, "models failed") {
		writeError(ctx, w, http.StatusBadGateway, "External service error")
		return
	}

	writeError(ctx, w, http.StatusInternalServerError, defaultMsg)
}
