package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Default vector sizes per embedding provider. The Gemini embedding-001
// model emits 768-dimensional vectors, the local all-MiniLM model 384.
const (
	GeminiVectorSize = 768
	OllamaVectorSize = 384
)

// Config holds all configuration for the application.
type Config struct {
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
	VectorSize       int

	GeminiAPIKey  string
	GeminiBaseURL string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModels  []string

	EmbeddingProvider string // "gemini" or "ollama"
	OllamaHost        string
	OllamaEmbedModel  string

	PDFLinksFile  string
	DownloadsDir  string
	SyllabusPath  string
	CatalogDBPath string

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields. Missing API keys are not an error:
// the API server degrades gracefully, so only structurally invalid values
// (e.g. a non-numeric VECTOR_SIZE) fail the load.
// If a .env file exists in the current directory or project root, it will be
// loaded automatically. Environment variables already set take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for a .env next to go.mod
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		QdrantURL:         getEnv("QDRANT_URL", ""),
		QdrantAPIKey:      getEnv("QDRANT_API_KEY", ""),
		QdrantCollection:  getEnv("QDRANT_COLLECTION", "srm_syllabus"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api"),
		EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", "gemini")),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaEmbedModel:  getEnv("OLLAMA_EMBED_MODEL", "all-minilm"),
		PDFLinksFile:      getEnv("PDF_LINKS_FILE", "pdf_links.txt"),
		DownloadsDir:      getEnv("DOWNLOADS_DIR", "downloads"),
		SyllabusPath:      getEnv("SYLLABUS_PATH", "syllabus.json"),
		CatalogDBPath:     getEnv("CATALOG_DB_PATH", "./data/catalog.db"),
		APIPort:           getEnv("API_PORT", "7860"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}

	// Ordered fallback through the configured model list. The first entry
	// that answers wins; the list is static for the process lifetime.
	modelsStr := getEnv("OPENROUTER_MODELS",
		"google/gemini-2.0-flash-exp:free,meta-llama/llama-3.3-70b-instruct:free,mistralai/mistral-7b-instruct:free")
	for _, m := range strings.Split(modelsStr, ",") {
		m = strings.TrimSpace(m)
		if m != "" {
			cfg.OpenRouterModels = append(cfg.OpenRouterModels, m)
		}
	}

	switch cfg.EmbeddingProvider {
	case "gemini", "ollama":
	default:
		return nil, fmt.Errorf("EMBEDDING_PROVIDER must be \"gemini\" or \"ollama\", got %q", cfg.EmbeddingProvider)
	}

	// VECTOR_SIZE must match the embedding model's output dimension or
	// index writes fail. Default tracks the provider choice.
	vectorSizeStr := getEnv("VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		if cfg.EmbeddingProvider == "ollama" {
			cfg.VectorSize = OllamaVectorSize
		} else {
			cfg.VectorSize = GeminiVectorSize
		}
	} else {
		vectorSize, err := strconv.Atoi(vectorSizeStr)
		if err != nil {
			return nil, fmt.Errorf("VECTOR_SIZE must be a valid integer: %w", err)
		}
		if vectorSize <= 0 {
			return nil, fmt.Errorf("VECTOR_SIZE must be greater than 0")
		}
		cfg.VectorSize = vectorSize
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

// QdrantConfigured reports whether a vector index endpoint is configured.
// Without one the API degrades to the file-backed syllabus path.
func (c *Config) QdrantConfigured() bool {
	return c.QdrantURL != ""
}

// GeminiConfigured reports whether the Gemini embedding API is usable.
func (c *Config) GeminiConfigured() bool {
	return c.GeminiAPIKey != ""
}

// OpenRouterConfigured reports whether answer generation is usable.
func (c *Config) OpenRouterConfigured() bool {
	return c.OpenRouterAPIKey != ""
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
