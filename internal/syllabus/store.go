// Package syllabus is the file-backed data path used when no vector index
// is configured: a static JSON structure of subjects searched by keyword.
package syllabus

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Unit is one ordered unit of a subject.
type Unit struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
}

// Subject is one subject with its ordered units.
type Subject struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Units []Unit `json:"units"`
}

// document is the top-level syllabus.json schema.
type document struct {
	Subjects []Subject `json:"subjects"`
}

// Match is a keyword hit: the subject plus the rendered context block that
// goes into a composed prompt.
type Match struct {
	Subject string
	Code    string
	Unit    string
	Context string
}

// Store reads syllabus.json fresh on every request. There is no caching
// and no mutation; a missing or empty file behaves as an empty syllabus,
// never an error.
type Store struct {
	path string
}

// NewStore creates a Store over the JSON file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Available reports whether the syllabus file exists on disk.
func (s *Store) Available() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &document{}, nil
		}
		return nil, fmt.Errorf("failed to read syllabus file %s: %w", s.path, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse syllabus file %s: %w", s.path, err)
	}
	return &doc, nil
}

// Subjects lists the subject names in file order.
func (s *Store) Subjects() ([]string, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Subjects))
	for _, subj := range doc.Subjects {
		names = append(names, subj.Name)
	}
	return names, nil
}

// Search returns keyword matches for query. A query matching a subject's
// name or code contributes that subject's full unit/topic context; a query
// matching only a unit title or topic contributes that unit alone.
// Matching is case-insensitive substring containment in either direction:
// a short query can name part of a field ("operating"), and a field can
// appear inside a longer natural-language question ("explain paging").
func (s *Store) Search(query string) ([]Match, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	var matches []Match
	for _, subj := range doc.Subjects {
		if fieldMatches(subj.Name, q) || fieldMatches(subj.Code, q) {
			for _, unit := range subj.Units {
				matches = append(matches, unitMatch(subj, unit))
			}
			continue
		}

		for _, unit := range subj.Units {
			if unitMatches(unit, q) {
				matches = append(matches, unitMatch(subj, unit))
			}
		}
	}
	return matches, nil
}

func unitMatches(unit Unit, q string) bool {
	if fieldMatches(unit.Title, q) {
		return true
	}
	for _, topic := range unit.Topics {
		if fieldMatches(topic, q) {
			return true
		}
	}
	return false
}

func fieldMatches(field, q string) bool {
	f := strings.ToLower(field)
	if f == "" {
		return false
	}
	return strings.Contains(f, q) || strings.Contains(q, f)
}

// unitMatch renders the context block for one unit of a subject.
func unitMatch(subj Subject, unit Unit) Match {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Subject: %s (%s)\n", subj.Name, subj.Code)
	fmt.Fprintf(&sb, "Unit %d: %s\n\n", unit.Number, unit.Title)
	sb.WriteString("Topics covered:\n")
	for _, t := range unit.Topics {
		sb.WriteString("- ")
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	return Match{
		Subject: subj.Name,
		Code:    subj.Code,
		Unit:    fmt.Sprintf("Unit %d: %s", unit.Number, unit.Title),
		Context: sb.String(),
	}
}
