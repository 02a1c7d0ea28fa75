package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studybuddy/internal/rag"
)

func TestNewRouter_Routes(t *testing.T) {
	// Bare engine: no backends configured. Routing behavior is what is
	// under test here, not engine semantics.
	router := NewRouter(&Deps{Engine: rag.New(rag.Deps{})})

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "health at root",
			method:     http.MethodGet,
			path:       "/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "query without gateway is a server error",
			method:     http.MethodPost,
			path:       "/api/query",
			body:       `{"query":"what is deadlock?"}`,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "search without index is an empty success",
			method:     http.MethodPost,
			path:       "/api/search",
			body:       `{"query":"memory"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "departments",
			method:     http.MethodGet,
			path:       "/api/departments",
			wantStatus: http.StatusOK,
		},
		{
			name:       "subjects alias",
			method:     http.MethodGet,
			path:       "/api/subjects",
			wantStatus: http.StatusOK,
		},
		{
			name:       "documents without catalog",
			method:     http.MethodGet,
			path:       "/api/documents",
			wantStatus: http.StatusOK,
		},
		{
			name:       "preflight",
			method:     http.MethodOptions,
			path:       "/api/query",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d, body %s",
					tt.method, tt.path, w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}
