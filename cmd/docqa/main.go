package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/docqa-labs/docqa/internal/api"
	"github.com/docqa-labs/docqa/internal/config"
	"github.com/docqa-labs/docqa/internal/domain"
	"github.com/docqa-labs/docqa/internal/ingest"
	"github.com/docqa-labs/docqa/internal/llm"
	"github.com/docqa-labs/docqa/internal/repository"
	"github.com/docqa-labs/docqa/internal/service"
	"github.com/docqa-labs/docqa/internal/vectorstore/memory"
	"github.com/docqa-labs/docqa/internal/vectorstore/qdrant"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize the document/history store
	var (
		docs    domain.DocumentStore
		history domain.HistoryStore
		closer  func()
	)
	switch cfg.Store.Backend {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := repository.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.MongoDB)
		cancel()
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		docs, history = store, store
		closer = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			store.Close(ctx)
		}
	default:
		store, err := repository.NewSQLiteStore(cfg.Store.SQLitePath)
		if err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		docs, history = store, store
		closer = func() { store.Close() }
	}
	defer closer()

	// Initialize the vector index
	var index domain.VectorIndex
	switch cfg.Index.Backend {
	case "qdrant":
		index = qdrant.New(qdrant.Config{
			URL:        cfg.Index.QdrantURL,
			APIKey:     cfg.Index.QdrantAPIKey,
			Collection: cfg.Index.QdrantCollection,
		})
	default:
		index = memory.New()
	}

	// Initialize the embedding/LLM client
	llmClient := llm.New(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.EmbeddingModel, cfg.LLM.ChatModel)

	// Initialize the ingestion pipeline
	codec, err := ingest.NewTokenCodec()
	if err != nil {
		logger.Fatal("Failed to load tokenizer", zap.Error(err))
	}
	chunker, err := ingest.NewChunker(codec, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		logger.Fatal("Invalid chunking configuration", zap.Error(err))
	}
	processor := ingest.NewProcessor(chunker, llmClient, index, docs, cfg.RAG.EmbedConcurrency, logger)

	// Initialize services
	ragService := service.NewRAGService(llmClient, index, llmClient, history,
		cfg.RAG.TopKDefault, cfg.RAG.MaxHistoryTurns, logger)
	adminService := service.NewAdminService(docs, history, index, cfg.RAG.MaxHistoryTurns, logger)

	// Setup router
	router := api.SetupRouter(processor, ragService, adminService, api.RouterConfig{
		APIKey:       cfg.Admin.APIKey,
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting DocQA server",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Backend),
			zap.String("index", cfg.Index.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
