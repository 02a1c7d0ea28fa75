package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"studybuddy/internal/rag"
	"studybuddy/internal/vectorstore"
	"studybuddy/internal/vectorstore/mocks"
)

func TestDepartmentsHandler_ListsDistinct(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().Scroll(gomock.Any(), "srm_syllabus", gomock.Any(), uint64(0)).Return([]vectorstore.SearchResult{
		{ID: 0, Meta: map[string]any{"department": "Mathematics"}},
		{ID: 1, Meta: map[string]any{"department": "Computer Science"}},
		{ID: 2, Meta: map[string]any{"department": "Mathematics"}},
	}, nil)

	engine := rag.New(rag.Deps{Store: store, Collection: "srm_syllabus"})
	handler := NewDepartmentsHandler(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/departments", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp DepartmentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Count != 2 || len(resp.Departments) != 2 {
		t.Errorf("response = %+v, want 2 distinct departments", resp)
	}
	if resp.Departments[0] != "Computer Science" || resp.Departments[1] != "Mathematics" {
		t.Errorf("departments = %v, want sorted", resp.Departments)
	}
}

func TestDepartmentsHandler_SubjectsAliasKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().Scroll(gomock.Any(), "srm_syllabus", gomock.Any(), uint64(0)).Return([]vectorstore.SearchResult{
		{ID: 0, Meta: map[string]any{"department": "Computer Science"}},
	}, nil)

	engine := rag.New(rag.Deps{Store: store, Collection: "srm_syllabus"})
	handler := NewDepartmentsHandler(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/subjects", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	// Clients of the legacy route read the "subjects" key.
	var resp SubjectsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Count != 1 || len(resp.Subjects) != 1 || resp.Subjects[0] != "Computer Science" {
		t.Errorf("response = %+v, want the listing under the subjects key", resp)
	}

	var raw map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := raw["subjects"]; !ok {
		t.Errorf("body = %s, missing subjects key", w.Body.String())
	}
}

func TestDepartmentsHandler_NothingConfiguredIsEmpty(t *testing.T) {
	engine := rag.New(rag.Deps{})
	handler := NewDepartmentsHandler(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/departments", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp DepartmentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Count != 0 || resp.Departments == nil {
		t.Errorf("response = %+v, want empty list, not null", resp)
	}
}
