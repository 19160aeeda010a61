package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
)

// Generator streams chat completions from an OpenAI-compatible API.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	topP        float32
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// GeneratorConfig holds the chat completion provider settings.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible chat completion provider.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}
}

// GenerateStream implements domain.Generator. Chunks are relayed as they
// arrive from the API; the chunk channel is closed before any terminal
// error lands on the buffered error channel.
func (g *Generator) GenerateStream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	chunks := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(errs)
		defer close(chunks)
		g.run(ctx, prompt, chunks, errs)
	}()

	return chunks, errs
}

func (g *Generator) run(ctx context.Context, prompt string, chunks chan<- string, errs chan<- error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		TopP:        g.topP,
		MaxTokens:   g.maxTokens,
		Stream:      true,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()

	stream, err := g.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		g.logger.Error("Chat stream creation failed",
			zap.String("model", g.model),
			zap.Error(err),
		)
		errs <- parseGeneratorError(err)
		return
	}
	defer func() { _ = stream.Close() }()

	chunkCount := 0
	for {
		response, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				g.logger.Debug("Chat stream completed",
					zap.String("model", g.model),
					zap.Int("chunks", chunkCount),
					zap.Duration("duration", time.Since(start)),
				)
				return
			}
			g.logger.Error("Chat stream receive failed",
				zap.String("model", g.model),
				zap.Int("chunks_so_far", chunkCount),
				zap.Error(err),
			)
			errs <- parseGeneratorError(err)
			return
		}

		if len(response.Choices) == 0 {
			continue
		}
		content := response.Choices[0].Delta.Content
		if content == "" {
			continue
		}

		chunkCount++
		select {
		case chunks <- content:
		case <-ctx.Done():
			return
		}
	}
}

// parseGeneratorError wraps API failures with domain.ErrGeneratorError so
// the assembler can render them as the terminal stream notice.
func parseGeneratorError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrGeneratorError)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("chat API error %d: %s: %w",
			reqErr.HTTPStatusCode, detail, domain.ErrGeneratorError)
	}

	return fmt.Errorf("chat request failed: %v: %w", err, domain.ErrGeneratorError)
}
