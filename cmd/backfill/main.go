// Command backfill embeds catalog events and stores the vectors. It can
// also seed the catalog from a JSON file before indexing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/alexnavarro1/StreamEvents/internal/config"
	dbRedis "github.com/alexnavarro1/StreamEvents/internal/db/redis"
	logpkg "github.com/alexnavarro1/StreamEvents/internal/logger"
	"github.com/alexnavarro1/StreamEvents/internal/metrics"
	"github.com/alexnavarro1/StreamEvents/internal/repository/embcache"
	eventrepo "github.com/alexnavarro1/StreamEvents/internal/repository/event"
	openaiTransport "github.com/alexnavarro1/StreamEvents/internal/transport/openai"
	backfilluc "github.com/alexnavarro1/StreamEvents/internal/usecase/backfill"
	embeddinguc "github.com/alexnavarro1/StreamEvents/internal/usecase/embedding"
)

func main() {
	force := flag.Bool("force", false, "re-embed events that already carry a vector")
	limit := flag.Int("limit", 0, "max number of events to process (0 = all)")
	seed := flag.String("seed", "", "path to a JSON file of events to import before indexing")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	metrics.RegisterRetrievalMetrics()

	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	cached := embcache.New(
		base,
		cfg.Embedding.Model,
		store,
		time.Duration(cfg.Embedding.CacheTTLh)*time.Hour,
		metrics.EmbeddingCacheTotal,
		logger,
	)
	embedder := embeddinguc.NewInstrumentedEmbedder(cached, cfg.Embedding.Provider, cfg.Embedding.Model, logger)

	events := eventrepo.New(store, cfg.Embedding.Model)
	svc := backfilluc.New(events, embedder, logger)

	if *seed != "" {
		f, err := os.Open(*seed)
		if err != nil {
			logger.Fatal("Failed to open seed file", zap.String("path", *seed), zap.Error(err))
		}
		created, err := svc.Seed(ctx, f)
		_ = f.Close()
		if err != nil {
			logger.Fatal("Seed failed", zap.Error(err))
		}
		fmt.Printf("Seeded events: %d created\n", created)
	}

	total, err := svc.Run(ctx, backfilluc.Options{Force: *force, Limit: *limit})
	if err != nil {
		logger.Fatal("Backfill failed", zap.Int("indexed_before_failure", total), zap.Error(err))
	}

	fmt.Printf("Embeddings generated: %d\n", total)
}
