package extractor

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor reads a downloaded PDF and produces its raw text content.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Text extracts the plain text of the PDF at path, page by page, with a
// blank line between pages. A page that fails to decode is skipped; the
// document only fails as a whole when it cannot be opened or no page
// yields any text.
func (e *Extractor) Text(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var sb strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("no text extracted from %s", path)
	}
	return sb.String(), nil
}

// NumPages returns the page count of the PDF at path.
func (e *Extractor) NumPages(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return r.NumPage(), nil
}
