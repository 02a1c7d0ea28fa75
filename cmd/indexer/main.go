package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"studybuddy/internal/chunker"
	"studybuddy/internal/config"
	"studybuddy/internal/embed"
	"studybuddy/internal/extractor"
	"studybuddy/internal/fetcher"
	"studybuddy/internal/indexer"
	"studybuddy/internal/rag"
	"studybuddy/internal/storage"
	"studybuddy/internal/vectorstore"
)

func main() {
	singleURL := flag.String("url", "", "index a single PDF URL instead of the links file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

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

	// Unlike the API server, indexing cannot degrade: it needs the index
	// and an embedding backend or there is nothing to do.
	if !cfg.QdrantConfigured() {
		log.Fatal("QDRANT_URL is required for indexing")
	}

	store, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}

	// A single-document run uses a denser overlap and keeps shorter
	// chunks than a full corpus rebuild.
	var urls []string
	var ch *chunker.Chunker
	if *singleURL != "" {
		urls = []string{*singleURL}
		ch, err = chunker.New(chunker.DefaultWindowSize, chunker.SinglePDFOverlap, chunker.SinglePDFMinChars)
	} else {
		urls, err = fetcher.ReadLinks(cfg.PDFLinksFile)
		if err != nil {
			log.Fatalf("Failed to read links file %s: %v", cfg.PDFLinksFile, err)
		}
		ch, err = chunker.New(chunker.DefaultWindowSize, chunker.DefaultOverlap, chunker.DefaultMinChars)
	}
	if err != nil {
		log.Fatalf("Failed to create chunker: %v", err)
	}

	deps := indexer.Deps{
		Fetcher:      fetcher.New(),
		Extractor:    extractor.New(),
		Chunker:      ch,
		Embedder:     embedder,
		Store:        store,
		Collection:   cfg.QdrantCollection,
		DownloadsDir: cfg.DownloadsDir,
	}

	if db, err := storage.New(cfg.CatalogDBPath); err != nil {
		slog.Warn("Failed to open catalog database, documents will not be cataloged",
			"path", cfg.CatalogDBPath, "error", err)
	} else {
		defer func() {
			_ = db.Close()
		}()
		if err := storage.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		deps.DocStore = storage.NewDocumentRepo(db)
	}

	pipeline, err := indexer.New(deps)
	if err != nil {
		log.Fatalf("Failed to create pipeline: %v", err)
	}

	slog.Info("Starting indexing run",
		"documents", len(urls),
		"collection", cfg.QdrantCollection,
		"embedder", embedder.Name())

	stats, err := pipeline.Run(context.Background(), urls)
	if err != nil {
		log.Fatalf("Indexing run failed: %v", err)
	}

	slog.Info("Done",
		"documents", stats.Documents,
		"failed", stats.Failed,
		"chunks", stats.Chunks,
		"chunks_skipped", stats.ChunksSkipped,
		"batches_lost", stats.BatchesLost)
}

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
