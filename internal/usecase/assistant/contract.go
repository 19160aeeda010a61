package assistant

import (
	"context"

	"github.com/alexnavarro1/StreamEvents/internal/usecase/retrieval"
)

// Retriever supplies ranked events for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, onlyFuture bool, k int) ([]retrieval.Scored, error)
}

// Generator streams natural-language text for a prompt. The chunk channel
// closes on completion; at most one error is delivered, possibly mid-stream.
type Generator interface {
	GenerateStream(ctx context.Context, prompt string) (<-chan string, <-chan error)
}
