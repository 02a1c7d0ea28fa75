package fetcher

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"studybuddy/internal/contextutil"

	"context"
)

// Fetcher downloads source documents to a local directory, skipping files
// that are already present. There is no freshness check: a file on disk is
// reused as-is across runs.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher with the standard 60 second download timeout.
func New() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// ReadLinks reads a line-delimited list of document URLs. Blank lines and
// lines starting with '#' are skipped.
func ReadLinks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open links file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var links []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		links = append(links, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read links file %s: %w", path, err)
	}
	return links, nil
}

// Filename derives the local cache filename for a document URL: the last
// path segment, with a fallback for URLs that end in a slash.
func Filename(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		if name := path.Base(u.Path); name != "/" && name != "." {
			return name
		}
	}
	// Fall back to splitting the raw string, matching the cache key used
	// by earlier ingestion runs.
	parts := strings.Split(strings.TrimRight(rawURL, "/"), "/")
	return parts[len(parts)-1]
}

// Fetch downloads the document at rawURL into destDir and returns the local
// path. If the file already exists it is returned without re-downloading.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, destDir string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create downloads directory: %w", err)
	}

	dest := filepath.Join(destDir, Filename(rawURL))
	if _, err := os.Stat(dest); err == nil {
		logger.DebugContext(ctx, "document already downloaded", "path", dest)
		return dest, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: bad status %d", rawURL, resp.StatusCode)
	}

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to move %s into place: %w", tmp, err)
	}

	logger.InfoContext(ctx, "document downloaded", "url", rawURL, "path", dest)
	return dest, nil
}
