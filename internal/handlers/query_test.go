package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studybuddy/internal/rag"
	"studybuddy/internal/retriever"
)

type stubRetriever struct {
	hits []retriever.Hit
	err  error
}

func (s *stubRetriever) Retrieve(context.Context, string, int) ([]retriever.Hit, error) {
	return s.hits, s.err
}

type stubGateway struct {
	answer string
	model  string
	err    error
}

func (s *stubGateway) Generate(context.Context, string) (string, string, error) {
	return s.answer, s.model, s.err
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestQueryHandler_Success(t *testing.T) {
	engine := rag.New(rag.Deps{
		Retriever: &stubRetriever{hits: []retriever.Hit{
			{Text: "Deadlock has four conditions.", Department: "Computer Science", Filename: "cse.pdf"},
		}},
		Gateway: &stubGateway{answer: "There are four conditions.", model: "model-a"},
	})
	handler := NewQueryHandler(engine)

	w := postJSON(t, handler, "/api/query", QueryRequest{Query: "what is deadlock?"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp QueryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !resp.Success || resp.Response != "There are four conditions." || resp.ModelUsed != "model-a" {
		t.Errorf("response = %+v, want successful answer from model-a", resp)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].Department != "Computer Science" {
		t.Errorf("sources = %+v, want one citation", resp.Sources)
	}
}

func TestQueryHandler_WireFormat(t *testing.T) {
	engine := rag.New(rag.Deps{
		Retriever: &stubRetriever{},
		Gateway:   &stubGateway{answer: "ok", model: "model-a"},
	})
	handler := NewQueryHandler(engine)

	// The request body key is "query"; clients sending it must not be
	// rejected as missing a question.
	req := httptest.NewRequest(http.MethodPost, "/api/query",
		strings.NewReader(`{"query":"what is deadlock?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestQueryHandler_EmptyQuery(t *testing.T) {
	engine := rag.New(rag.Deps{Gateway: &stubGateway{}})
	handler := NewQueryHandler(engine)

	w := postJSON(t, handler, "/api/query", QueryRequest{Query: "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestQueryHandler_InvalidBody(t *testing.T) {
	engine := rag.New(rag.Deps{Gateway: &stubGateway{}})
	handler := NewQueryHandler(engine)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestQueryHandler_MissingCredentialNamed(t *testing.T) {
	// No gateway configured at all.
	engine := rag.New(rag.Deps{})
	handler := NewQueryHandler(engine)

	w := postJSON(t, handler, "/api/query", QueryRequest{Query: "anything"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !strings.Contains(resp.Error, "OPENROUTER_API_KEY") {
		t.Errorf("error = %q, want the missing credential named", resp.Error)
	}
	if resp.Success {
		t.Error("success = true on error response")
	}
}

func TestQueryHandler_GatewayExhaustedIsBadGateway(t *testing.T) {
	engine := rag.New(rag.Deps{
		Retriever: &stubRetriever{},
		Gateway:   &stubGateway{err: errors.New("all 3 models failed, last failure from model-c: rate limited")},
	})
	handler := NewQueryHandler(engine)

	w := postJSON(t, handler, "/api/query", QueryRequest{Query: "q"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestQueryHandler_MethodNotAllowed(t *testing.T) {
	engine := rag.New(rag.Deps{Gateway: &stubGateway{}})
	handler := NewQueryHandler(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/query", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
