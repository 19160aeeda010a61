package backfill

import (
	"context"
	"time"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
)

// Repository is the event catalog access the backfill needs.
type Repository interface {
	All(ctx context.Context) ([]domain.Event, error)
	Upsert(ctx context.Context, e *domain.Event) (bool, error)
	SetEmbedding(ctx context.Context, id string, vec []float32, model string, at time.Time) error
}

// Embedder vectorizes indexing text and names the model it embeds with.
type Embedder interface {
	domain.Embedder
	domain.ModelNamer
}
