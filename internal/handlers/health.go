package handlers

import (
	"context"
	"net/http"
	"time"

	"studybuddy/internal/contextutil"
	"studybuddy/internal/rag"
)

// HealthHandler handles HTTP requests for service status.
type HealthHandler struct {
	engine             *rag.Engine
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(engine *rag.Engine) *HealthHandler {
	return &HealthHandler{
		engine:             engine,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the service status response.
type HealthResponse struct {
	Status          string `json:"status"`
	Service         string `json:"service"`
	QdrantConnected bool   `json:"qdrant_connected"`
	VectorsIndexed  uint64 `json:"vectors_indexed"`
	LLMAvailable    bool   `json:"llm_available"`
}

// ServeHTTP reports backend availability. The endpoint itself always
// answers 200: a degraded backend shows up in the flags, and a slow one is
// cut off by the probe timeout rather than hanging the check.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	status := h.engine.Status(checkCtx)

	writeJSON(ctx, w, http.StatusOK, HealthResponse{
		Status:          "healthy",
		Service:         "SRM Study Buddy API",
		QdrantConnected: status.QdrantConnected,
		VectorsIndexed:  status.VectorsIndexed,
		LLMAvailable:    status.LLMAvailable,
	})
}
