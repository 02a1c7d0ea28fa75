package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"studybuddy/internal/config"
	"studybuddy/internal/embed"
	"studybuddy/internal/http"
	"studybuddy/internal/llm"
	"studybuddy/internal/rag"
	"studybuddy/internal/retriever"
	"studybuddy/internal/storage"
	"studybuddy/internal/syllabus"
	"studybuddy/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	deps := rag.Deps{Collection: cfg.QdrantCollection}

	// The server starts with whatever backends are configured and
	// degrades per-endpoint: no Qdrant means the file-backed syllabus
	// path, no OpenRouter key means query requests fail with a clear
	// error instead of the process refusing to boot.
	if cfg.QdrantConfigured() {
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		deps.Store = store

		embedder, err := newEmbedder(cfg)
		if err != nil {
			slog.Warn("No embedding backend, retrieval disabled", "error", err)
		} else {
			deps.Retriever = retriever.New(embedder, store, cfg.QdrantCollection)
			slog.Info("Retrieval enabled", "embedder", embedder.Name(), "vector_size", embedder.Dimension())
		}
	} else {
		slog.Warn("QDRANT_URL not set, falling back to syllabus.json keyword search")
	}

	deps.Syllabus = syllabus.NewStore(cfg.SyllabusPath)

	if cfg.OpenRouterConfigured() {
		client := llm.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey)
		gateway, err := llm.NewGateway(client, cfg.OpenRouterModels)
		if err != nil {
			log.Fatalf("Failed to create LLM gateway: %v", err)
		}
		deps.Gateway = gateway
		slog.Info("LLM gateway ready", "models", len(cfg.OpenRouterModels))
	} else {
		slog.Warn("OPENROUTER_API_KEY not set, query endpoint will report the missing credential")
	}

	routerDeps := &http.Deps{Engine: rag.New(deps)}

	// Document catalog is optional; a failed open only disables the
	// /api/documents listing.
	if db, err := storage.New(cfg.CatalogDBPath); err != nil {
		slog.Warn("Failed to open catalog database", "path", cfg.CatalogDBPath, "error", err)
	} else {
		defer func() {
			_ = db.Close()
		}()
		if err := storage.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		routerDeps.DocStore = storage.NewDocumentRepo(db)
		slog.Info("Catalog database ready", "path", cfg.CatalogDBPath)
	}

	router := http.NewRouter(routerDeps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// newEmbedder builds the configured embedding strategy. The provider must
// match the one the index was built with.
func newEmbedder(cfg *config.Config) (embed.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "ollama":
		return embed.NewOllamaEmbedder(cfg.OllamaHost, cfg.OllamaEmbedModel, cfg.VectorSize)
	default:
		if !cfg.GeminiConfigured() {
			return nil, &rag.MissingCredentialError{Name: "GEMINI_API_KEY"}
		}
		return embed.NewGeminiEmbedder(cfg.GeminiBaseURL, cfg.GeminiAPIKey), nil
	}
}
