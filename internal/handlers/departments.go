package handlers

import (
	"net/http"
	"strings"

	"studybuddy/internal/contextutil"
	"studybuddy/internal/rag"
)

// DepartmentsHandler handles HTTP requests listing indexed departments.
// The same handler backs both /api/departments and its legacy alias
// /api/subjects.
type DepartmentsHandler struct {
	engine *rag.Engine
}

// NewDepartmentsHandler creates a new DepartmentsHandler.
func NewDepartmentsHandler(engine *rag.Engine) *DepartmentsHandler {
	return &DepartmentsHandler{engine: engine}
}

// DepartmentsResponse represents the department listing response.
type DepartmentsResponse struct {
	Departments []string `json:"departments"`
	Count       int      `json:"count"`
	Success     bool     `json:"success"`
}

// SubjectsResponse is the same listing under the key older clients of the
// /api/subjects route expect.
type SubjectsResponse struct {
	Subjects []string `json:"subjects"`
	Count    int      `json:"count"`
	Success  bool     `json:"success"`
}

// ServeHTTP lists the distinct departments known to the index.
func (h *DepartmentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	departments, err := h.engine.Departments(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list departments", "error", err)
		writeError(ctx, w, http.StatusServiceUnavailable, "Vector store unavailable")
		return
	}

	if departments == nil {
		departments = []string{}
	}

	if strings.HasSuffix(r.URL.Path, "/subjects") {
		writeJSON(ctx, w, http.StatusOK, SubjectsResponse{
			Subjects: departments,
			Count:    len(departments),
			Success:  true,
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, DepartmentsResponse{
		Departments: departments,
		Count:       len(departments),
		Success:     true,
	})
}
