package event

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
	"github.com/alexnavarro1/StreamEvents/internal/usecase/retrieval"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(c *catalog, model string) *Repo {
	r := New(c.mock(), model)
	r.now = func() time.Time { return testNow }
	return r
}

func sampleEvent(id string) domain.Event {
	return domain.Event{
		ID:          id,
		Title:       "Friday night football",
		Description: "Local derby, live commentary",
		Category:    domain.CategorySports,
		Tags:        "football, derby",
		Status:      domain.StatusScheduled,
		ScheduledAt: testNow.Add(48 * time.Hour),
		StreamURL:   "https://cdn.example.com/live/" + id,
		MaxViewers:  500,
		IsFeatured:  true,
		CreatedAt:   testNow.Add(-time.Hour),
	}
}

func TestUpsertAndGetRoundTrip(t *testing.T) {
	c := newCatalog()
	repo := newTestRepo(c, "")
	ctx := context.Background()

	e := sampleEvent("ev1")
	e.Embedding = []float32{0.1, 0.2, 0.3}
	e.EmbeddingModel = "text-embedding-3-small"
	e.EmbeddedAt = testNow

	created, err := repo.Upsert(ctx, &e)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !created {
		t.Error("Upsert() created = false for a new event")
	}

	got, err := repo.Get(ctx, "ev1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != e.Title || got.Category != e.Category || got.Tags != e.Tags {
		t.Errorf("Get() = %+v", got)
	}
	if !got.ScheduledAt.Equal(e.ScheduledAt) {
		t.Errorf("ScheduledAt = %v, want %v", got.ScheduledAt, e.ScheduledAt)
	}
	if got.MaxViewers != 500 || !got.IsFeatured {
		t.Errorf("numeric fields = %d, %v", got.MaxViewers, got.IsFeatured)
	}
	if len(got.Embedding) != 3 || got.Embedding[2] != 0.3 {
		t.Errorf("Embedding = %v", got.Embedding)
	}
	if got.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q", got.EmbeddingModel)
	}

	created, err = repo.Upsert(ctx, &e)
	if err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}
	if created {
		t.Error("Upsert() created = true for an existing event")
	}
}

func TestUpsertEmptyID(t *testing.T) {
	repo := newTestRepo(newCatalog(), "")
	if _, err := repo.Upsert(context.Background(), &domain.Event{}); err == nil {
		t.Error("Upsert() error = nil for empty id")
	}
}

func TestGetNotFound(t *testing.T) {
	repo := newTestRepo(newCatalog(), "")
	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("Get() error = %v, want ErrEventNotFound", err)
	}
}

func TestAll(t *testing.T) {
	c := newCatalog()
	repo := newTestRepo(c, "")
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		e := sampleEvent(id)
		if _, err := repo.Upsert(ctx, &e); err != nil {
			t.Fatalf("Upsert(%s) error = %v", id, err)
		}
	}

	events, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("All() returned %d events, want 3", len(events))
	}
	ids := []string{events[0].ID, events[1].ID, events[2].ID}
	sort.Strings(ids)
	if ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("All() ids = %v", ids)
	}
}

func TestAllEmptyCatalog(t *testing.T) {
	repo := newTestRepo(newCatalog(), "")
	events, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("All() returned %d events, want 0", len(events))
	}
}

func TestDelete(t *testing.T) {
	c := newCatalog()
	repo := newTestRepo(c, "")
	ctx := context.Background()

	e := sampleEvent("ev1")
	if _, err := repo.Upsert(ctx, &e); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repo.Delete(ctx, "ev1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, "ev1"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("second Delete() error = %v, want ErrEventNotFound", err)
	}
}

func TestSetEmbedding(t *testing.T) {
	c := newCatalog()
	repo := newTestRepo(c, "")
	ctx := context.Background()

	e := sampleEvent("ev1")
	if _, err := repo.Upsert(ctx, &e); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	vec := []float32{0.5, -0.5}
	if err := repo.SetEmbedding(ctx, "ev1", vec, "text-embedding-3-small", testNow); err != nil {
		t.Fatalf("SetEmbedding() error = %v", err)
	}

	got, err := repo.Get(ctx, "ev1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Embedding) != 2 || got.Embedding[0] != 0.5 {
		t.Errorf("Embedding = %v", got.Embedding)
	}
	if got.EmbeddingModel != "text-embedding-3-small" || !got.EmbeddedAt.Equal(testNow) {
		t.Errorf("embedding metadata = %q, %v", got.EmbeddingModel, got.EmbeddedAt)
	}
	// The rest of the record survives a partial update.
	if got.Title != e.Title || got.MaxViewers != e.MaxViewers {
		t.Errorf("record fields changed: %+v", got)
	}
}

func TestSetEmbeddingNotFound(t *testing.T) {
	repo := newTestRepo(newCatalog(), "")
	err := repo.SetEmbedding(context.Background(), "missing", []float32{1}, "m", testNow)
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("SetEmbedding() error = %v, want ErrEventNotFound", err)
	}
}

func TestCandidates(t *testing.T) {
	c := newCatalog()
	repo := newTestRepo(c, "text-embedding-3-small")
	ctx := context.Background()

	embed := func(e domain.Event, model string) domain.Event {
		e.Embedding = []float32{1, 0}
		e.EmbeddingModel = model
		e.EmbeddedAt = testNow
		return e
	}

	upcoming := embed(sampleEvent("upcoming"), "text-embedding-3-small")

	past := embed(sampleEvent("past"), "text-embedding-3-small")
	past.ScheduledAt = testNow.Add(-time.Hour)

	finished := embed(sampleEvent("finished"), "text-embedding-3-small")
	finished.Status = domain.StatusFinished

	unindexed := sampleEvent("unindexed")

	staleModel := embed(sampleEvent("stale"), "text-embedding-ada-002")

	for _, e := range []domain.Event{upcoming, past, finished, unindexed, staleModel} {
		ev := e
		if _, err := repo.Upsert(ctx, &ev); err != nil {
			t.Fatalf("Upsert(%s) error = %v", e.ID, err)
		}
	}

	got, err := repo.Candidates(ctx, true)
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if len(got) != 1 || got[0].Event.ID != "upcoming" {
		t.Fatalf("Candidates(only_future) = %v, want just the upcoming event", ids(got))
	}
	if len(got[0].Vector) != 2 {
		t.Errorf("candidate vector = %v", got[0].Vector)
	}

	// Without the future filter, past and finished events still rank, but
	// unindexed and stale-model events never do.
	got, err = repo.Candidates(ctx, false)
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Candidates(all) = %v, want 3", ids(got))
	}
	for _, cand := range got {
		if cand.Event.ID == "unindexed" || cand.Event.ID == "stale" {
			t.Errorf("candidate %q should have been excluded", cand.Event.ID)
		}
	}
}

func TestCandidatesNoModelFilter(t *testing.T) {
	c := newCatalog()
	repo := newTestRepo(c, "")
	ctx := context.Background()

	e := sampleEvent("ev1")
	e.Embedding = []float32{1}
	e.EmbeddingModel = "whatever"
	if _, err := repo.Upsert(ctx, &e); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.Candidates(ctx, false)
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Candidates() = %v, want 1", ids(got))
	}
}

func ids(cands []retrieval.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Event.ID
	}
	return out
}
