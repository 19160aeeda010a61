package backfill

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
)

// seedEvent is the JSON import shape for one catalog event.
type seedEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Tags        string `json:"tags"`
	Status      string `json:"status"`
	ScheduledAt string `json:"scheduled_at"`
	StreamURL   string `json:"stream_url"`
	MaxViewers  int    `json:"max_viewers"`
	IsFeatured  bool   `json:"is_featured"`
}

// Seed imports events from a JSON array and upserts them into the catalog.
// Returns how many events were created (updates of existing IDs count in
// the run but not in the result). Seeded events carry no embedding; a
// backfill run indexes them afterwards.
func (s *Service) Seed(ctx context.Context, r io.Reader) (int, error) {
	var seeds []seedEvent
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	created := 0
	for i, se := range seeds {
		e, err := se.toDomain()
		if err != nil {
			return created, fmt.Errorf("seed entry %d: %w", i, err)
		}

		isNew, err := s.repo.Upsert(ctx, &e)
		if err != nil {
			return created, fmt.Errorf("upsert seed event %s: %w", e.ID, err)
		}
		if isNew {
			created++
		}
	}

	s.logger.Info("Seed finished", zap.Int("imported", len(seeds)), zap.Int("created", created))
	return created, nil
}

func (se seedEvent) toDomain() (domain.Event, error) {
	if se.ID == "" {
		return domain.Event{}, fmt.Errorf("missing id")
	}
	if se.Title == "" {
		return domain.Event{}, fmt.Errorf("missing title")
	}

	e := domain.Event{
		ID:          se.ID,
		Title:       se.Title,
		Description: se.Description,
		Category:    se.Category,
		Tags:        se.Tags,
		Status:      se.Status,
		StreamURL:   se.StreamURL,
		MaxViewers:  se.MaxViewers,
		IsFeatured:  se.IsFeatured,
		CreatedAt:   time.Now().UTC(),
	}
	if e.Status == "" {
		e.Status = domain.StatusScheduled
	}
	if se.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, se.ScheduledAt)
		if err != nil {
			return domain.Event{}, fmt.Errorf("invalid scheduled_at %q: %w", se.ScheduledAt, err)
		}
		e.ScheduledAt = t
	}
	return e, nil
}
