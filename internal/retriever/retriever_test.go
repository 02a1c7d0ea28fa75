package retriever_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"studybuddy/internal/embed"
	"studybuddy/internal/retriever"
	"studybuddy/internal/vectorstore"
	"studybuddy/internal/vectorstore/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeEmbedder returns a fixed vector, or an error when failWith is set.
type fakeEmbedder struct {
	vec      []float32
	failWith error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string, _ embed.TaskType) ([]float32, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.vec, nil
}

func (f *fakeEmbedder) Dimension() int { return len(f.vec) }
func (f *fakeEmbedder) Name() string   { return "fake" }

func TestRetrieve_MapsPayloads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		Search(gomock.Any(), "syllabus", []float32{0.1, 0.2}, 5).
		Return([]vectorstore.SearchResult{
			{
				ID:    0,
				Score: 0.98,
				Meta: map[string]any{
					"text":        "Data Structures syllabus unit 1 arrays linked lists",
					"department":  "Computer Science",
					"filename":    "cse-syllabus.pdf",
					"url":         "https://example.edu/cse-syllabus.pdf",
					"unit":        "Unit 1: Arrays",
					"chunk_index": int64(0),
				},
			},
			{
				ID:    7,
				Score: 0.41,
				Meta: map[string]any{
					"text":       "unrelated chunk",
					"department": "Mechanical",
					"filename":   "mech.pdf",
				},
			},
		}, nil)

	r := retriever.New(&fakeEmbedder{vec: []float32{0.1, 0.2}}, store, "syllabus")

	hits, err := r.Retrieve(context.Background(), "arrays", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Retrieve() returned %d hits, want 2", len(hits))
	}

	top := hits[0]
	if top.Text != "Data Structures syllabus unit 1 arrays linked lists" {
		t.Errorf("top hit text = %q", top.Text)
	}
	if top.Department != "Computer Science" || top.Unit != "Unit 1: Arrays" || top.ChunkIndex != 0 {
		t.Errorf("top hit metadata mismatch: %+v", top)
	}
	if top.Score < hits[1].Score {
		t.Error("hit scores must be non-increasing in rank order")
	}
}

func TestRetrieve_SearchFailureYieldsEmptyResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		Search(gomock.Any(), "syllabus", gomock.Any(), 5).
		Return(nil, errors.New("connection refused"))

	r := retriever.New(&fakeEmbedder{vec: []float32{0.1}}, store, "syllabus")

	hits, err := r.Retrieve(context.Background(), "arrays", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v, want nil (unavailable index degrades to empty)", err)
	}
	if len(hits) != 0 {
		t.Errorf("Retrieve() returned %d hits, want 0", len(hits))
	}
}

func TestRetrieve_EmbeddingFailureIsAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)
	// Search must not be called when the query embedding fails.

	r := retriever.New(&fakeEmbedder{failWith: errors.New("quota exceeded")}, store, "syllabus")

	if _, err := r.Retrieve(context.Background(), "arrays", 5); err == nil {
		t.Error("Retrieve() expected error when query embedding fails, got nil")
	}
}

func TestSources_DedupByDepartment(t *testing.T) {
	hits := []retriever.Hit{
		{Department: "Computer Science", Filename: "cse.pdf", Score: 0.9},
		{Department: "Mechanical", Filename: "mech.pdf", Score: 0.8},
		{Department: "Computer Science", Filename: "cse-2.pdf", Score: 0.7},
	}

	sources := retriever.Sources(hits)
	if len(sources) != 2 {
		t.Fatalf("Sources() = %d entries, want 2", len(sources))
	}
	// First occurrence per department wins.
	if sources[0].Department != "Computer Science" || sources[0].Filename != "cse.pdf" {
		t.Errorf("sources[0] = %+v, want first Computer Science hit", sources[0])
	}
	if sources[1].Department != "Mechanical" {
		t.Errorf("sources[1] = %+v, want Mechanical", sources[1])
	}
}
