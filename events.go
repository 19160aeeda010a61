package streamevents

import (
	"context"
	"fmt"
	"time"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
	eventrepo "github.com/alexnavarro1/StreamEvents/internal/repository/event"
)

// Event is a catalog entry. Embedding metadata is read-only from the SDK's
// perspective; Backfill manages it.
type Event struct {
	ID          string
	Title       string
	Description string
	Category    string
	Tags        string
	Status      string
	ScheduledAt time.Time
	StreamURL   string
	MaxViewers  int
	IsFeatured  bool
	CreatedAt   time.Time

	HasEmbedding   bool
	EmbeddingModel string
	EmbeddedAt     time.Time
}

// EventService manages the event catalog.
type EventService struct {
	repo *eventrepo.Repo
}

// Upsert creates or updates an event. Returns true if created. Writing an
// event does not embed it; run Backfill afterwards.
func (s *EventService) Upsert(ctx context.Context, e Event) (bool, error) {
	de := toDomain(e)
	created, err := s.repo.Upsert(ctx, &de)
	if err != nil {
		return false, fmt.Errorf("upsert event: %w", err)
	}
	return created, nil
}

// Get returns an event by ID. Returns ErrEventNotFound if absent.
func (s *EventService) Get(ctx context.Context, id string) (Event, error) {
	de, err := s.repo.Get(ctx, id)
	if err != nil {
		return Event{}, fmt.Errorf("get event: %w", err)
	}
	return fromDomain(de), nil
}

// All returns every event in the catalog.
func (s *EventService) All(ctx context.Context) ([]Event, error) {
	des, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]Event, len(des))
	for i, de := range des {
		out[i] = fromDomain(de)
	}
	return out, nil
}

// Delete removes an event. Returns ErrEventNotFound if absent.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ErrEventNotFound reports a missing catalog entry.
var ErrEventNotFound = domain.ErrEventNotFound

func toDomain(e Event) domain.Event {
	status := e.Status
	if status == "" {
		status = domain.StatusScheduled
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Tags:        e.Tags,
		Status:      status,
		ScheduledAt: e.ScheduledAt,
		StreamURL:   e.StreamURL,
		MaxViewers:  e.MaxViewers,
		IsFeatured:  e.IsFeatured,
		CreatedAt:   createdAt,
	}
}

func fromDomain(de domain.Event) Event {
	return Event{
		ID:             de.ID,
		Title:          de.Title,
		Description:    de.Description,
		Category:       de.Category,
		Tags:           de.Tags,
		Status:         de.Status,
		ScheduledAt:    de.ScheduledAt,
		StreamURL:      de.StreamURL,
		MaxViewers:     de.MaxViewers,
		IsFeatured:     de.IsFeatured,
		CreatedAt:      de.CreatedAt,
		HasEmbedding:   de.HasEmbedding(),
		EmbeddingModel: de.EmbeddingModel,
		EmbeddedAt:     de.EmbeddedAt,
	}
}
