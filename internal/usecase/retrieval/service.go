package retrieval

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
	"github.com/alexnavarro1/StreamEvents/internal/metrics"
)

// Config holds ranking thresholds, injected at construction so tests can
// override them. MinScore is the quality floor below which a match is never
// surfaced; RankFloor is the internal over-fetch size that keeps the floor
// from starving small result sets.
type Config struct {
	MinScore     float64
	RankFloor    int
	DefaultLimit int
	EmbedTimeout time.Duration
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MinScore:     0.25,
		RankFloor:    20,
		DefaultLimit: 8,
		EmbedTimeout: 30 * time.Second,
	}
}

// Service runs the retrieval pipeline: embed query, fetch candidates,
// rank, threshold, truncate.
type Service struct {
	source CandidateSource
	embed  Embedder
	cfg    Config
	logger *zap.Logger
}

// New creates a retrieval service.
func New(source CandidateSource, embed Embedder, cfg Config, logger *zap.Logger) *Service {
	if cfg.RankFloor <= 0 {
		cfg.RankFloor = DefaultConfig().RankFloor
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultConfig().DefaultLimit
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = DefaultConfig().EmbedTimeout
	}
	return &Service{source: source, embed: embed, cfg: cfg, logger: logger}
}

// Retrieve returns up to k events relevant to the query, in descending
// score order, never surfacing a score below the configured floor. An empty
// result is a valid outcome, not an error. Embedding failure aborts the
// whole retrieval.
func (s *Service) Retrieve(ctx context.Context, query string, onlyFuture bool, k int) ([]Scored, error) {
	if k <= 0 {
		k = s.cfg.DefaultLimit
	}

	embCtx, cancel := context.WithTimeout(ctx, s.cfg.EmbedTimeout)
	defer cancel()

	embRes, err := s.embed.Embed(embCtx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embRes.Embedding) == 0 {
		return nil, fmt.Errorf("embed query: empty vector: %w", domain.ErrEmbeddingProviderError)
	}

	candidates, err := s.source.Candidates(ctx, onlyFuture)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	// Over-fetch past k so the score floor below doesn't starve the final
	// result when good matches exist beyond a naive top-k cut.
	rankK := k
	if rankK < s.cfg.RankFloor {
		rankK = s.cfg.RankFloor
	}
	ranked := RankTopK(embRes.Embedding, candidates, rankK)

	kept := ranked[:0]
	for _, r := range ranked {
		if r.Score >= s.cfg.MinScore {
			kept = append(kept, r)
		}
	}
	if len(kept) > k {
		kept = kept[:k]
	}

	metrics.RetrievalResults.WithLabelValues(strconv.FormatBool(onlyFuture)).Observe(float64(len(kept)))
	s.logger.Debug("retrieval completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(ranked)),
		zap.Int("returned", len(kept)),
		zap.Bool("only_future", onlyFuture),
	)

	return kept, nil
}
