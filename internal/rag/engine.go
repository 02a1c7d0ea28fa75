package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"studybuddy/internal/contextutil"
	"studybuddy/internal/llm"
	"studybuddy/internal/retriever"
	"studybuddy/internal/syllabus"
	"studybuddy/internal/vectorstore"
)

const (
	// queryTopK is how many chunks feed a composed prompt.
	queryTopK = 5
	// searchTopK is how many chunks a raw search returns.
	searchTopK = 10
	// searchSnippetLimit truncates search result content.
	searchSnippetLimit = 500
	// scrollPageSize is the page size for department enumeration.
	scrollPageSize = 256
)

// MissingCredentialError names the configuration a request needed but the
// process was started without. It maps to a server-side error, never a
// crash.
type MissingCredentialError struct {
	Name string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: %s is not configured", e.Name)
}

// ContextRetriever returns the nearest indexed chunks for a query.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]retriever.Hit, error)
}

// Generator produces a completion, reporting which model answered.
type Generator interface {
	Generate(ctx context.Context, prompt string) (text, modelUsed string, err error)
}

// QueryResult is a grounded answer with its citations.
type QueryResult struct {
	Answer    string             `json:"response"`
	Sources   []retriever.Source `json:"sources"`
	ModelUsed string             `json:"model_used"`
}

// SearchHit is one raw retrieval result.
type SearchHit struct {
	Content    string  `json:"content"`
	Department string  `json:"department"`
	Filename   string  `json:"filename,omitempty"`
	Unit       string  `json:"unit,omitempty"`
	Subject    string  `json:"subject,omitempty"`
	Score      float32 `json:"score"`
}

// Deps holds the engine's collaborators. Every field except Gateway may be
// nil: the engine degrades to whatever knowledge sources are configured.
type Deps struct {
	Retriever ContextRetriever
	Syllabus  *syllabus.Store
	Gateway   Generator

	// Store and Collection back the department listing and health status.
	Store      vectorstore.VectorStore
	Collection string
}

// Engine answers questions over the syllabus corpus. Context comes from the
// vector index when one is configured, from syllabus.json keyword search
// otherwise, and a question with no context at all is still answered from
// the model's general knowledge.
type Engine struct {
	deps Deps
}

// New creates an Engine.
func New(deps Deps) *Engine {
	return &Engine{deps: deps}
}

// Query retrieves context for question, composes a prompt with up to the
// five most recent history turns, and generates an answer.
func (e *Engine) Query(ctx context.Context, question string, history []llm.Message) (*QueryResult, error) {
	if e.deps.Gateway == nil {
		return nil, &MissingCredentialError{Name: "OPENROUTER_API_KEY"}
	}

	contextText, sources, err := e.buildContext(ctx, question)
	if err != nil {
		return nil, err
	}

	prompt := llm.ComposePrompt(contextText, history, question)
	answer, model, err := e.deps.Gateway.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	if sources == nil {
		sources = []retriever.Source{}
	}
	return &QueryResult{Answer: answer, Sources: sources, ModelUsed: model}, nil
}

// buildContext assembles the context block and citations for a question.
// Retrieval problems short of an embedding failure yield empty context.
func (e *Engine) buildContext(ctx context.Context, question string) (string, []retriever.Source, error) {
	if e.deps.Retriever != nil {
		hits, err := e.deps.Retriever.Retrieve(ctx, question, queryTopK)
		if err != nil {
			return "", nil, err
		}
		parts := make([]string, 0, len(hits))
		for _, h := range hits {
			parts = append(parts, h.Text)
		}
		return strings.Join(parts, "\n\n---\n\n"), retriever.Sources(hits), nil
	}

	if e.deps.Syllabus != nil && e.deps.Syllabus.Available() {
		matches, err := e.deps.Syllabus.Search(question)
		if err != nil {
			contextutil.LoggerFromContext(ctx).Warn("syllabus search failed", "error", err)
			return "", nil, nil
		}
		parts := make([]string, 0, len(matches))
		sources := make([]retriever.Source, 0, len(matches))
		for _, m := range matches {
			parts = append(parts, m.Context)
			sources = append(sources, retriever.Source{
				Department: m.Subject,
				Filename:   "syllabus.json",
				Unit:       m.Unit,
				Subject:    m.Code,
			})
		}
		return strings.Join(parts, "\n\n---\n\n"), sources, nil
	}

	return "", nil, nil
}

// Search returns raw retrieval results without invoking a model.
func (e *Engine) Search(ctx context.Context, query string) ([]SearchHit, error) {
	if e.deps.Retriever != nil {
		hits, err := e.deps.Retriever.Retrieve(ctx, query, searchTopK)
		if err != nil {
			return nil, err
		}
		results := make([]SearchHit, 0, len(hits))
		for _, h := range hits {
			results = append(results, SearchHit{
				Content:    truncate(h.Text, searchSnippetLimit),
				Department: h.Department,
				Filename:   h.Filename,
				Unit:       h.Unit,
				Subject:    h.Subject,
				Score:      h.Score,
			})
		}
		return results, nil
	}

	if e.deps.Syllabus != nil && e.deps.Syllabus.Available() {
		matches, err := e.deps.Syllabus.Search(query)
		if err != nil {
			return nil, fmt.Errorf("failed to search syllabus: %w", err)
		}
		results := make([]SearchHit, 0, len(matches))
		for _, m := range matches {
			results = append(results, SearchHit{
				Content:    truncate(m.Context, searchSnippetLimit),
				Department: m.Subject,
				Filename:   "syllabus.json",
				Unit:       m.Unit,
				Subject:    m.Code,
			})
		}
		return results, nil
	}

	// No index and no syllabus file: an absent corpus is empty, not an
	// error.
	return []SearchHit{}, nil
}

// Departments lists the distinct departments known to the engine: payload
// values scrolled from the vector index when one is configured, subject
// names from syllabus.json otherwise.
func (e *Engine) Departments(ctx context.Context) ([]string, error) {
	if e.deps.Store != nil {
		return e.scrollDepartments(ctx)
	}
	if e.deps.Syllabus != nil && e.deps.Syllabus.Available() {
		return e.deps.Syllabus.Subjects()
	}
	return []string{}, nil
}

func (e *Engine) scrollDepartments(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var offset uint64

	for {
		page, err := e.deps.Store.Scroll(ctx, e.deps.Collection, scrollPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to scroll collection: %w", err)
		}
		if len(page) == 0 {
			break
		}
		for _, res := range page {
			if dept, ok := res.Meta["department"].(string); ok && dept != "" {
				seen[dept] = true
			}
			if res.ID >= offset {
				offset = res.ID + 1
			}
		}
		if len(page) < scrollPageSize {
			break
		}
	}

	departments := make([]string, 0, len(seen))
	for dept := range seen {
		departments = append(departments, dept)
	}
	sort.Strings(departments)
	return departments, nil
}

// Status reports backend availability for the health endpoint.
type Status struct {
	QdrantConnected bool   `json:"qdrant_connected"`
	VectorsIndexed  uint64 `json:"vectors_indexed"`
	LLMAvailable    bool   `json:"llm_available"`
}

// Status checks each backend. Probe failures degrade to "not connected"
// rather than erroring; health never fails outright.
func (e *Engine) Status(ctx context.Context) Status {
	logger := contextutil.LoggerFromContext(ctx)
	st := Status{LLMAvailable: e.deps.Gateway != nil}

	if e.deps.Store == nil {
		return st
	}

	exists, err := e.deps.Store.CollectionExists(ctx, e.deps.Collection)
	if err != nil {
		logger.Warn("qdrant health probe failed", "error", err)
		return st
	}
	st.QdrantConnected = true

	if exists {
		count, err := e.deps.Store.Count(ctx, e.deps.Collection)
		if err != nil {
			logger.Warn("failed to count vectors", "error", err)
		} else {
			st.VectorsIndexed = count
		}
	}

	return st
}

// truncate cuts s to at most limit bytes without splitting a UTF-8 rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
