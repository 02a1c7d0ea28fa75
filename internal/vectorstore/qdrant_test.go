package vectorstore

import (
	"net/url"
	"strconv"
	"testing"
)

// TestNewQdrantStore_URLParsing tests URL parsing logic without creating a real client.
func TestNewQdrantStore_URLParsing(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		wantHost string
		wantPort int
		wantTLS  bool
	}{
		{
			name:     "local instance",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334, // gRPC port is HTTP port + 1
		},
		{
			name:     "custom port",
			urlStr:   "http://localhost:9000",
			wantHost: "localhost",
			wantPort: 9001,
		},
		{
			name:     "cloud URL uses TLS",
			urlStr:   "https://abc123.cloud.qdrant.io",
			wantHost: "abc123.cloud.qdrant.io",
			wantPort: 6334,
			wantTLS:  true,
		},
		{
			name:     "URL without port",
			urlStr:   "http://qdrant.internal",
			wantHost: "qdrant.internal",
			wantPort: 6334,
		},
		{
			name:    "invalid URL",
			urlStr:  "://invalid",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsedURL, err := url.Parse(tt.urlStr)
			if tt.wantErr {
				if err == nil {
					t.Error("expected URL parsing to fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to parse URL: %v", err)
			}

			host := parsedURL.Hostname()
			if host == "" {
				host = "localhost"
			}
			port := 6334
			if parsedURL.Port() != "" {
				if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
					port = httpPort + 1
				}
			}

			if host != tt.wantHost {
				t.Errorf("host = %q, want %q", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("port = %d, want %d", port, tt.wantPort)
			}
			if (parsedURL.Scheme == "https") != tt.wantTLS {
				t.Errorf("TLS = %v, want %v", parsedURL.Scheme == "https", tt.wantTLS)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	if _, err := NewQdrantStore("://invalid", ""); err == nil {
		t.Error("NewQdrantStore() expected error for invalid URL, got nil")
	}
}
