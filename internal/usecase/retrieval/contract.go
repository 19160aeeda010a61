package retrieval

import (
	"context"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
)

// CandidateSource supplies events eligible for ranking, paired with their
// stored embeddings. Events without an embedding are excluded at the source
// (never indexed, not an error). When onlyFuture is set, only events
// scheduled at or after the current time are returned.
type CandidateSource interface {
	Candidates(ctx context.Context, onlyFuture bool) ([]Candidate, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
