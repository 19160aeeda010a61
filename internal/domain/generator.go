package domain

import "context"

// Generator streams natural-language text from a prompt.
//
// GenerateStream returns a lazy sequence of chunks: the chunk channel is
// closed when generation ends, and at most one error is sent on the
// buffered error channel (mid-stream transport failures included). The
// chunk channel is always closed before the error is delivered, so a
// consumer may drain chunks first and then read the terminal error.
// Cancelling ctx abandons the generation; no chunks are sent after that.
type Generator interface {
	GenerateStream(ctx context.Context, prompt string) (<-chan string, <-chan error)
}
