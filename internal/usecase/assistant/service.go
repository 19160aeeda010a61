package assistant

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alexnavarro1/StreamEvents/internal/metrics"
)

// Config holds assistant settings.
type Config struct {
	// ContextSize is how many ranked events ground the generator.
	ContextSize int
	// PreviewSize is how many of those are exposed in the metadata frame.
	PreviewSize int
	// Model is the generator model label used for metrics.
	Model string
}

// DefaultConfig returns the production assistant settings.
func DefaultConfig() Config {
	return Config{ContextSize: 8, PreviewSize: 3}
}

// Service turns a user message into a grounded streaming response:
// retrieve, assemble context, prompt the generator, relay its chunks.
type Service struct {
	retriever Retriever
	generator Generator
	cfg       Config
	logger    *zap.Logger
}

// New creates an assistant service.
func New(retriever Retriever, generator Generator, cfg Config, logger *zap.Logger) *Service {
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = DefaultConfig().ContextSize
	}
	if cfg.PreviewSize <= 0 {
		cfg.PreviewSize = DefaultConfig().PreviewSize
	}
	return &Service{retriever: retriever, generator: generator, cfg: cfg, logger: logger}
}

// Respond retrieves grounding events for the message and streams the
// response frames: one metadata frame, then one text frame per generator
// chunk. A generator failure mid-stream is recovered as a final visible
// text frame; the channel always closes. Retrieval failure is returned
// before any frame is produced.
//
// An empty retrieval is not an error: the prompt carries an empty context
// and instructs the generator to ask for clarification instead of
// fabricating a recommendation.
func (s *Service) Respond(ctx context.Context, message string, onlyFuture bool) (<-chan Frame, error) {
	ranked, err := s.retriever.Retrieve(ctx, message, onlyFuture, s.cfg.ContextSize)
	if err != nil {
		return nil, fmt.Errorf("retrieve grounding events: %w", err)
	}

	events := BuildContext(ranked)
	prompt, err := BuildPrompt(message, events)
	if err != nil {
		return nil, err
	}

	preview := events
	if len(preview) > s.cfg.PreviewSize {
		preview = preview[:s.cfg.PreviewSize]
	}

	frames := make(chan Frame, 8)
	go s.stream(ctx, prompt, preview, frames)
	return frames, nil
}

func (s *Service) stream(ctx context.Context, prompt string, preview []EventContext, frames chan<- Frame) {
	defer close(frames)

	if !s.send(ctx, frames, Frame{Type: FrameMetadata, Events: preview}) {
		return
	}

	chunks, errs := s.generator.GenerateStream(ctx, prompt)
	chunkCount := 0

	// The generator closes the chunk channel before delivering a terminal
	// error, so draining chunks first keeps frame order deterministic:
	// every chunk produced before the failure precedes the error notice.
	for chunk := range chunks {
		chunkCount++
		metrics.GeneratorChunksTotal.WithLabelValues(s.cfg.Model).Inc()
		if !s.send(ctx, frames, Frame{Type: FrameText, Text: chunk}) {
			metrics.GeneratorStreamsTotal.WithLabelValues(s.cfg.Model, "cancelled").Inc()
			return
		}
	}

	if err, ok := <-errs; ok && err != nil {
		// Terminal visible error notice, then the stream closes.
		// The error never reopens or corrupts the stream.
		s.logger.Warn("generator failed mid-stream",
			zap.Int("chunks_delivered", chunkCount),
			zap.Error(err),
		)
		metrics.GeneratorStreamsTotal.WithLabelValues(s.cfg.Model, "failed").Inc()
		s.send(ctx, frames, Frame{Type: FrameText, Text: fmt.Sprintf(" [AI model error: %v]", err)})
		return
	}

	if ctx.Err() != nil {
		metrics.GeneratorStreamsTotal.WithLabelValues(s.cfg.Model, "cancelled").Inc()
		return
	}

	metrics.GeneratorStreamsTotal.WithLabelValues(s.cfg.Model, "completed").Inc()
	s.logger.Debug("assistant stream completed", zap.Int("chunks", chunkCount))
}

func (s *Service) send(ctx context.Context, frames chan<- Frame, f Frame) bool {
	select {
	case frames <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
