package domain

import "errors"

var (
	// ErrEventNotFound signals a missing event.
	ErrEventNotFound = errors.New("event not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	// A query that cannot be embedded fails the whole retrieval.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGeneratorError signals a text generator failure.
	ErrGeneratorError = errors.New("generator error")
	// ErrEmptyQuery signals a blank search or chat message.
	ErrEmptyQuery = errors.New("empty query")
)
