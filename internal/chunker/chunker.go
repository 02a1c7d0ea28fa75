package chunker

import (
	"fmt"
	"strings"
)

// Default parameters for the two ingestion paths. The full-corpus indexer
// filters more aggressively than the single-PDF path.
const (
	DefaultWindowSize = 500
	DefaultOverlap    = 50
	DefaultMinChars   = 100

	SinglePDFOverlap  = 100
	SinglePDFMinChars = 50
)

// Chunker splits raw text into overlapping fixed-size word windows.
// It has no sentence or paragraph awareness: a window may split
// mid-sentence. Undersized fragments are discarded.
type Chunker struct {
	windowSize int
	overlap    int
	minChars   int
}

// New creates a Chunker. windowSize and overlap are measured in words,
// minChars in characters of the joined chunk text. windowSize must be
// strictly greater than overlap, otherwise the window would never advance.
func New(windowSize, overlap, minChars int) (*Chunker, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", windowSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must be non-negative, got %d", overlap)
	}
	if windowSize <= overlap {
		return nil, fmt.Errorf("window size (%d) must be greater than overlap (%d)", windowSize, overlap)
	}
	return &Chunker{
		windowSize: windowSize,
		overlap:    overlap,
		minChars:   minChars,
	}, nil
}

// Split produces the ordered sequence of chunks for text. Tokens are the
// whitespace-split words of the input; each chunk is windowSize tokens
// joined by single spaces, and consecutive chunks share overlap tokens.
// Chunks whose character length is at or below minChars are dropped.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.windowSize - c.overlap
	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + c.windowSize
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if len(chunk) > c.minChars {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// WindowSize returns the configured window size in words.
func (c *Chunker) WindowSize() int { return c.windowSize }

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int { return c.overlap }
