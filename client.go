// Package streamevents embeds the event retrieval engine as a Go library:
// connect to Redis, manage the event catalog, run semantic searches, and
// backfill embeddings without going through the HTTP API.
package streamevents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alexnavarro1/StreamEvents/internal/db"
	dbRedis "github.com/alexnavarro1/StreamEvents/internal/db/redis"
	"github.com/alexnavarro1/StreamEvents/internal/domain"
	eventrepo "github.com/alexnavarro1/StreamEvents/internal/repository/event"
	backfilluc "github.com/alexnavarro1/StreamEvents/internal/usecase/backfill"
	retrievaluc "github.com/alexnavarro1/StreamEvents/internal/usecase/retrieval"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the streamevents SDK entry point.
type Client struct {
	store    db.Store
	events   *eventrepo.Repo
	search   *retrievaluc.Service
	backfill *backfilluc.Service
}

// New creates a Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		retrieval: retrievaluc.DefaultConfig(),
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("streamevents: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("streamevents: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("streamevents: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	var domEmb embedderWithModel = noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	events := eventrepo.New(store, domEmb.ModelName())
	search := retrievaluc.New(events, domEmb, cfg.retrieval, cfg.logger)
	backfill := backfilluc.New(events, domEmb, cfg.logger)

	return &Client{
		store:    store,
		events:   events,
		search:   search,
		backfill: backfill,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Events returns the catalog management service.
func (c *Client) Events() *EventService {
	return &EventService{repo: c.events}
}

// Backfill embeds events missing a vector (or every event with Force) and
// returns how many were indexed.
func (c *Client) Backfill(ctx context.Context, opts BackfillOptions) (int, error) {
	n, err := c.backfill.Run(ctx, backfilluc.Options{Force: opts.Force, Limit: opts.Limit})
	if err != nil {
		return n, fmt.Errorf("backfill: %w", err)
	}
	return n, nil
}

// BackfillOptions controls a Backfill call.
type BackfillOptions struct {
	Force bool
	Limit int
}

// embedderWithModel is the internal surface both real and noop embedders satisfy.
type embedderWithModel interface {
	domain.Embedder
	domain.ModelNamer
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

func (a *embedderAdapter) ModelName() string {
	return a.inner.ModelName()
}

// noopEmbedder returns an error on Embed (used when no embedder configured).
// Catalog reads and writes still work; Search and Backfill do not.
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"streamevents: embedder not configured (use WithEmbedder)",
	)
}

func (noopEmbedder) ModelName() string { return "" }
