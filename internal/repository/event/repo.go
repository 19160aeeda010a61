// Package event persists the event catalog as one hash per event.
package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
	"github.com/alexnavarro1/StreamEvents/internal/repository/vectorcodec"
	"github.com/alexnavarro1/StreamEvents/internal/usecase/retrieval"
)

var keyPrefix = domain.KeyPrefix + "event:"

// store is the consumer interface for the event catalog.
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements event storage plus the retrieval candidate source.
type Repo struct {
	store store

	// model scopes Candidates to vectors produced by the current embedding
	// model; vectors from an older model never mix into one ranking call.
	// Empty disables the filter.
	model string

	now func() time.Time
}

// New creates an event repository.
func New(s store, model string) *Repo {
	return &Repo{store: s, model: model, now: time.Now}
}

// Upsert creates or updates an event. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, e *domain.Event) (bool, error) {
	if e.ID == "" {
		return false, fmt.Errorf("upsert event: empty id")
	}
	key := eventKey(e.ID)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.HSet(ctx, key, buildHashFields(e)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	return !exists, nil
}

// Get returns an event by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Event, error) {
	key := eventKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Event{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return parseHashFields(id, fields), nil
}

// All returns every event in the catalog in unspecified order.
func (r *Repo) All(ctx context.Context) ([]domain.Event, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	events := make([]domain.Event, 0, len(keys))
	for i, m := range maps {
		if len(m) == 0 {
			// Deleted between SCAN and HGETALL.
			continue
		}
		events = append(events, parseHashFields(eventID(keys[i]), m))
	}
	return events, nil
}

// Delete removes an event.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := eventKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrEventNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// SetEmbedding stores the event's vector together with the model that
// produced it and the indexing time. The rest of the record is untouched.
func (r *Repo) SetEmbedding(ctx context.Context, id string, vec []float32, model string, at time.Time) error {
	key := eventKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrEventNotFound
	}

	fields := map[string]string{
		fieldEmbedding:      string(vectorcodec.Encode(vec)),
		fieldEmbeddingModel: model,
		fieldEmbeddedAt:     timeToField(at),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Candidates returns the events eligible for ranking: embedded with the
// current model, scheduled status, and (when onlyFuture is set) starting
// at or after now. Events without an embedding are silently excluded.
func (r *Repo) Candidates(ctx context.Context, onlyFuture bool) ([]retrieval.Candidate, error) {
	events, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	out := make([]retrieval.Candidate, 0, len(events))
	for _, e := range events {
		if !e.HasEmbedding() {
			continue
		}
		if r.model != "" && e.EmbeddingModel != r.model {
			continue
		}
		if onlyFuture && (e.Status != domain.StatusScheduled || !e.IsUpcoming(now)) {
			continue
		}
		out = append(out, retrieval.Candidate{Event: e, Vector: e.Embedding})
	}
	return out, nil
}

func eventKey(id string) string {
	return keyPrefix + id
}

func eventID(key string) string {
	return strings.TrimPrefix(key, keyPrefix)
}

var _ retrieval.CandidateSource = (*Repo)(nil)
