package streamevents

import (
	"context"

	"go.uber.org/zap"

	retrievaluc "github.com/alexnavarro1/StreamEvents/internal/usecase/retrieval"
)

// EmbeddingResult is the public embedding outcome.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text for search and backfill. ModelName tags stored
// vectors; changing it invalidates previously stored embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
	ModelName() string
}

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs     []string
	username  string
	password  string
	embedder  Embedder
	retrieval retrievaluc.Config
	logger    *zap.Logger
}

// WithRedis sets the Redis addresses to connect to.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
	}
}

// WithAuth sets database credentials.
func WithAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithEmbedder sets the embedding provider. Required for Search and
// Backfill; the catalog works without it.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithMinScore overrides the relevance floor below which results are
// dropped.
func WithMinScore(score float64) Option {
	return func(c *clientConfig) {
		c.retrieval.MinScore = score
	}
}

// WithDefaultLimit overrides how many results a search returns when no
// limit is given.
func WithDefaultLimit(k int) Option {
	return func(c *clientConfig) {
		c.retrieval.DefaultLimit = k
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
