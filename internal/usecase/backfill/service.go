// Package backfill generates and stores embeddings for catalog events that
// were never indexed, or re-indexes the whole catalog on demand.
package backfill

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
)

// categoryKeywords broadens the indexing text per category so that concrete
// queries ("football", "podcast") land near the right events even when the
// event text never mentions the word.
var categoryKeywords = map[string]string{
	domain.CategorySports:        "Sports, Football, Soccer, Basketball, Tennis, Competition, Match",
	domain.CategoryGaming:        "Video games, eSports, Twitch, YouTube, Streamer, Gaming tournament, Fortnite, CS:GO, LoL",
	domain.CategoryMusic:         "Concert, Song, Album, Band, Artist, Live, Music",
	domain.CategoryTalk:          "Podcast, Interview, Talk, Conference, Panel, Debate",
	domain.CategoryEducation:     "Course, Class, Workshop, Learning, Tutorial, Guide",
	domain.CategoryEntertainment: "Comedy, Show, Performance, Magic, Entertainment",
	domain.CategoryTechnology:    "Programming, Software, Hardware, AI, Artificial Intelligence, Tech",
	domain.CategoryArt:           "Painting, Drawing, Design, Creativity, Art",
}

// Options controls one backfill run.
type Options struct {
	// Force re-embeds events that already carry a vector.
	Force bool
	// Limit caps the number of events processed; 0 means all.
	Limit int
}

// Service embeds events and persists the vectors.
type Service struct {
	repo     Repository
	embedder Embedder
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a backfill service.
func New(repo Repository, embedder Embedder, logger *zap.Logger) *Service {
	return &Service{repo: repo, embedder: embedder, logger: logger, now: time.Now}
}

// Run embeds the selected events in creation order and returns how many
// were indexed. Events whose indexing text is empty are skipped. An
// embedding failure aborts the run; vectors stored before the failure stay.
func (s *Service) Run(ctx context.Context, opts Options) (int, error) {
	events, err := s.repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load events: %w", err)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	selected := events[:0]
	for _, e := range events {
		if !opts.Force && e.HasEmbedding() {
			continue
		}
		selected = append(selected, e)
	}
	if opts.Limit > 0 && len(selected) > opts.Limit {
		selected = selected[:opts.Limit]
	}

	model := s.embedder.ModelName()
	total := 0
	for i := range selected {
		e := &selected[i]

		text := indexText(e)
		if text == "" {
			s.logger.Warn("Skipping event with empty indexing text", zap.String("event_id", e.ID))
			continue
		}

		result, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return total, fmt.Errorf("embed event %s: %w", e.ID, err)
		}

		if err := s.repo.SetEmbedding(ctx, e.ID, result.Embedding, model, s.now()); err != nil {
			return total, fmt.Errorf("store embedding for %s: %w", e.ID, err)
		}

		total++
		s.logger.Debug("Event indexed",
			zap.String("event_id", e.ID),
			zap.String("model", model),
			zap.Int("dimensions", len(result.Embedding)),
			zap.Int("total_tokens", result.TotalTokens),
		)
	}

	s.logger.Info("Backfill finished",
		zap.Int("indexed", total),
		zap.Int("selected", len(selected)),
		zap.String("model", model),
	)
	return total, nil
}

// indexText builds the text an event is embedded under: title, description,
// category, the category's keyword expansion, and tags, joined with " | "
// and empty parts dropped.
func indexText(e *domain.Event) string {
	parts := []string{
		strings.TrimSpace(e.Title),
		strings.TrimSpace(e.Description),
		strings.TrimSpace(e.Category),
		categoryKeywords[e.Category],
		strings.TrimSpace(e.Tags),
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " | ")
}
