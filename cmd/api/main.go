package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"enterprise-rag/internal/config"
	"enterprise-rag/internal/http"
	"enterprise-rag/internal/ingest"
	"enterprise-rag/internal/llm"
	"enterprise-rag/internal/rag"
	"enterprise-rag/internal/retrieval"
	"enterprise-rag/internal/storage"
	"enterprise-rag/internal/vectorstore"
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

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	documentRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"healthcheck"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Ingestion pipeline
	pipeline := ingest.NewPipeline(
		documentRepo,
		chunkRepo,
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		cfg.ChunkSize,
		cfg.ChunkOverlap,
	)

	// Hybrid retriever: dense vector search fused with a BM25 ranking over
	// the chunk corpus
	denseRetriever := retrieval.NewVectorSearchRetriever(embedder, vectorStore, chunkRepo, cfg.QdrantCollection)
	corpus := retrieval.NewChunkCorpus(chunkRepo)
	hybridRetriever := retrieval.NewHybridRetriever(denseRetriever, corpus, retrieval.Options{
		TopKDense:   cfg.TopKDense,
		TopKSparse:  cfg.TopKSparse,
		TopKFinal:   cfg.TopKFinal,
		RRFConstant: cfg.RRFK,
	})

	// Answer engine
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	memory := rag.NewSessionMemory(0)
	engine := rag.NewEngine(hybridRetriever, llmClient, memory)
	evaluator := rag.NewEvaluator(engine, hybridRetriever)
	slog.Info("Answer engine initialized", "llm_model", cfg.LLMModelName)

	router := http.NewRouter(&http.Deps{
		Engine:      engine,
		Pipeline:    pipeline,
		Evaluator:   evaluator,
		VectorStore: vectorStore,
		Collection:  cfg.QdrantCollection,
		AppName:     cfg.AppName,
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
