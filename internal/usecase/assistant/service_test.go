package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
	"github.com/alexnavarro1/StreamEvents/internal/usecase/retrieval"
)

type mockRetriever struct {
	ranked []retrieval.Scored
	err    error

	gotQuery      string
	gotOnlyFuture bool
	gotK          int
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, onlyFuture bool, k int) ([]retrieval.Scored, error) {
	m.gotQuery = query
	m.gotOnlyFuture = onlyFuture
	m.gotK = k
	return m.ranked, m.err
}

// mockGenerator replays a fixed chunk script, then an optional error. The
// chunk channel is always closed before the error is delivered, matching
// the Generator contract.
type mockGenerator struct {
	chunks    []string
	err       error
	gotPrompt string
}

func (m *mockGenerator) GenerateStream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	m.gotPrompt = prompt
	chunks := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		defer close(chunks)
		for _, c := range m.chunks {
			select {
			case chunks <- c:
			case <-ctx.Done():
				return
			}
		}
		if m.err != nil {
			errs <- m.err
		}
	}()
	return chunks, errs
}

// blockingGenerator never emits and never closes until ctx is cancelled.
type blockingGenerator struct{}

func (blockingGenerator) GenerateStream(ctx context.Context, _ string) (<-chan string, <-chan error) {
	chunks := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		defer close(chunks)
		<-ctx.Done()
	}()
	return chunks, errs
}

func scoredEvent(id, title string, score float64) retrieval.Scored {
	return retrieval.Scored{
		Event: domain.Event{
			ID:          id,
			Title:       title,
			Category:    domain.CategorySports,
			ScheduledAt: time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC),
		},
		Score: score,
	}
}

func collectFrames(t *testing.T, frames <-chan Frame) []Frame {
	t.Helper()
	var out []Frame
	deadline := time.After(2 * time.Second)
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				return out
			}
			out = append(out, f)
		case <-deadline:
			t.Fatalf("stream did not close, got %d frames so far", len(out))
		}
	}
}

func TestRespondStreamsMetadataThenText(t *testing.T) {
	ret := &mockRetriever{ranked: []retrieval.Scored{
		scoredEvent("e1", "Derby night", 0.91),
		scoredEvent("e2", "Cup final", 0.80),
		scoredEvent("e3", "Training open day", 0.55),
		scoredEvent("e4", "Fan meetup", 0.40),
	}}
	gen := &mockGenerator{chunks: []string{"I found ", "a match for you."}}
	svc := New(ret, gen, DefaultConfig(), zap.NewNop())

	frames, err := svc.Respond(context.Background(), "football tonight", true)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	got := collectFrames(t, frames)

	if len(got) != 3 {
		t.Fatalf("got %d frames, want 3", len(got))
	}
	if got[0].Type != FrameMetadata {
		t.Fatalf("first frame type = %q, want metadata", got[0].Type)
	}
	if len(got[0].Events) != 3 {
		t.Errorf("metadata carries %d events, want preview of 3", len(got[0].Events))
	}
	if got[0].Events[0].ID != "e1" || got[0].Events[2].ID != "e3" {
		t.Errorf("metadata preview = %v, want top 3 in rank order", got[0].Events)
	}
	if got[1].Text != "I found " || got[2].Text != "a match for you." {
		t.Errorf("text frames = %q, %q", got[1].Text, got[2].Text)
	}
	if !ret.gotOnlyFuture {
		t.Error("only_future flag not propagated to retriever")
	}
	if ret.gotK != DefaultConfig().ContextSize {
		t.Errorf("retriever k = %d, want %d", ret.gotK, DefaultConfig().ContextSize)
	}
	if !strings.Contains(gen.gotPrompt, "football tonight") {
		t.Error("prompt does not contain the user request")
	}
	if !strings.Contains(gen.gotPrompt, "Derby night") {
		t.Error("prompt does not contain the context events")
	}
}

func TestRespondGeneratorFailureMidStream(t *testing.T) {
	ret := &mockRetriever{ranked: []retrieval.Scored{scoredEvent("e1", "Derby night", 0.91)}}
	gen := &mockGenerator{
		chunks: []string{"first", "second"},
		err:    errors.New("upstream closed connection"),
	}
	svc := New(ret, gen, DefaultConfig(), zap.NewNop())

	frames, err := svc.Respond(context.Background(), "football", false)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	got := collectFrames(t, frames)

	// Exactly: metadata, the two delivered chunks, one terminal error
	// notice. The channel then closes; nothing reopens the stream.
	if len(got) != 4 {
		t.Fatalf("got %d frames, want 4", len(got))
	}
	if got[1].Text != "first" || got[2].Text != "second" {
		t.Errorf("delivered chunks = %q, %q", got[1].Text, got[2].Text)
	}
	want := " [AI model error: upstream closed connection]"
	if got[3].Text != want {
		t.Errorf("terminal frame = %q, want %q", got[3].Text, want)
	}
}

func TestRespondEmptyRetrieval(t *testing.T) {
	ret := &mockRetriever{ranked: nil}
	gen := &mockGenerator{chunks: []string{"Could you tell me more?"}}
	svc := New(ret, gen, DefaultConfig(), zap.NewNop())

	frames, err := svc.Respond(context.Background(), "quantum basket weaving", false)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	got := collectFrames(t, frames)

	if len(got) != 2 {
		t.Fatalf("got %d frames, want 2", len(got))
	}
	if got[0].Type != FrameMetadata || len(got[0].Events) != 0 {
		t.Errorf("metadata frame = %+v, want empty events", got[0])
	}
	if !strings.Contains(gen.gotPrompt, "[]") {
		t.Error("prompt does not carry an empty context payload")
	}
}

func TestRespondRetrievalError(t *testing.T) {
	ret := &mockRetriever{err: domain.ErrEmbeddingProviderError}
	svc := New(ret, &mockGenerator{}, DefaultConfig(), zap.NewNop())

	frames, err := svc.Respond(context.Background(), "football", false)
	if err == nil {
		t.Fatal("Respond() error = nil, want retrieval failure")
	}
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("error = %v, want wrapped ErrEmbeddingProviderError", err)
	}
	if frames != nil {
		t.Error("frames channel created despite retrieval failure")
	}
}

func TestRespondContextCancellation(t *testing.T) {
	ret := &mockRetriever{ranked: []retrieval.Scored{scoredEvent("e1", "Derby night", 0.91)}}
	svc := New(ret, blockingGenerator{}, DefaultConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	frames, err := svc.Respond(ctx, "football", false)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	// Metadata arrives, then generation stalls; cancelling must close the
	// stream without a completion frame.
	first := <-frames
	if first.Type != FrameMetadata {
		t.Fatalf("first frame type = %q, want metadata", first.Type)
	}
	cancel()

	got := collectFrames(t, frames)
	if len(got) != 0 {
		t.Errorf("got %d frames after cancel, want 0", len(got))
	}
}

func TestNewClampsConfig(t *testing.T) {
	ret := &mockRetriever{}
	svc := New(ret, &mockGenerator{}, Config{}, zap.NewNop())
	if svc.cfg.ContextSize != 8 || svc.cfg.PreviewSize != 3 {
		t.Errorf("cfg = %+v, want defaults applied", svc.cfg)
	}
}
