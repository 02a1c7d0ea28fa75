package syllabus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSyllabus = `{
  "subjects": [
    {
      "name": "Data Structures",
      "code": "21CSC201J",
      "units": [
        {"number": 1, "title": "Arrays and Linked Lists", "topics": ["arrays", "singly linked lists", "doubly linked lists"]},
        {"number": 2, "title": "Stacks and Queues", "topics": ["stack operations", "queue operations"]}
      ]
    },
    {
      "name": "Operating Systems",
      "code": "21CSC202J",
      "units": [
        {"number": 1, "title": "Processes", "topics": ["process states", "scheduling"]}
      ]
    }
  ]
}`

func writeSyllabus(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syllabus.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return NewStore(path)
}

func TestSearch_SubjectNameMatchIncludesAllUnits(t *testing.T) {
	store := writeSyllabus(t, testSyllabus)

	matches, err := store.Search("data structures")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Search() returned %d matches, want 2 (one per unit)", len(matches))
	}

	// A subject-name match carries the full unit/topic context.
	joined := matches[0].Context + matches[1].Context
	for _, want := range []string{"Data Structures", "21CSC201J", "Unit 1: Arrays and Linked Lists", "singly linked lists", "Unit 2: Stacks and Queues", "queue operations"} {
		if !strings.Contains(joined, want) {
			t.Errorf("context missing %q", want)
		}
	}
}

func TestSearch_TopicMatchReturnsSingleUnit(t *testing.T) {
	store := writeSyllabus(t, testSyllabus)

	matches, err := store.Search("scheduling")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Search() returned %d matches, want 1", len(matches))
	}
	if matches[0].Subject != "Operating Systems" {
		t.Errorf("match subject = %q, want Operating Systems", matches[0].Subject)
	}
	if matches[0].Unit != "Unit 1: Processes" {
		t.Errorf("match unit = %q, want Unit 1: Processes", matches[0].Unit)
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	store := writeSyllabus(t, testSyllabus)

	matches, err := store.Search("OPERATING")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("Search() returned %d matches, want 1", len(matches))
	}
}

func TestSearch_NaturalLanguageQuery(t *testing.T) {
	store := writeSyllabus(t, testSyllabus)

	// The topic appears inside a longer question rather than the query
	// appearing inside a field.
	matches, err := store.Search("can you explain process scheduling to me")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Search() returned %d matches, want 1", len(matches))
	}
	if matches[0].Subject != "Operating Systems" {
		t.Errorf("match subject = %q, want Operating Systems", matches[0].Subject)
	}
}

func TestSearch_NoMatch(t *testing.T) {
	store := writeSyllabus(t, testSyllabus)

	matches, err := store.Search("quantum chromodynamics")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Search() returned %d matches, want 0", len(matches))
	}
}

func TestSearch_MissingFileIsEmptyNotError(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))

	matches, err := store.Search("anything")
	if err != nil {
		t.Fatalf("Search() on missing file error = %v, want nil", err)
	}
	if len(matches) != 0 {
		t.Errorf("Search() on missing file returned %d matches, want 0", len(matches))
	}
	if store.Available() {
		t.Error("Available() = true for missing file")
	}
}

func TestSubjects(t *testing.T) {
	store := writeSyllabus(t, testSyllabus)

	subjects, err := store.Subjects()
	if err != nil {
		t.Fatalf("Subjects() error = %v", err)
	}
	want := []string{"Data Structures", "Operating Systems"}
	if len(subjects) != len(want) {
		t.Fatalf("Subjects() = %v, want %v", subjects, want)
	}
	for i := range want {
		if subjects[i] != want[i] {
			t.Errorf("subjects[%d] = %q, want %q", i, subjects[i], want[i])
		}
	}
}

func TestSearch_MalformedFile(t *testing.T) {
	store := writeSyllabus(t, "{not json")
	if _, err := store.Search("anything"); err == nil {
		t.Error("Search() expected error for malformed file, got nil")
	}
}
