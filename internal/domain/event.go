package domain

import (
	"strings"
	"time"
)

// KeyPrefix namespaces every key the service writes to the store.
const KeyPrefix = "streamevents:"

// Event categories as used by the catalog and the prompt's category mapping.
const (
	CategoryGaming        = "gaming"
	CategoryMusic         = "music"
	CategoryTalk          = "talk"
	CategoryEducation     = "education"
	CategorySports        = "sports"
	CategoryEntertainment = "entertainment"
	CategoryTechnology    = "technology"
	CategoryArt           = "art"
	CategoryOther         = "other"
)

// Event lifecycle states.
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
)

// Event is a streaming event in the catalog.
// Embedding fields are populated by the backfill job, never at request time;
// an event with a nil Embedding was simply never indexed.
type Event struct {
	ID             string
	Title          string
	Description    string
	Category       string
	Tags           string // comma-separated keywords
	Status         string
	ScheduledAt    time.Time
	StreamURL      string
	MaxViewers     int
	IsFeatured     bool
	CreatedAt      time.Time
	Embedding      []float32
	EmbeddingModel string
	EmbeddedAt     time.Time
}

// HasEmbedding reports whether the event carries a stored vector.
func (e *Event) HasEmbedding() bool {
	return len(e.Embedding) > 0
}

// IsUpcoming reports whether the event starts at or after t.
func (e *Event) IsUpcoming(t time.Time) bool {
	return !e.ScheduledAt.Before(t)
}

// TagList splits the comma-separated tag string into trimmed keywords.
func (e *Event) TagList() []string {
	var tags []string
	for _, t := range strings.Split(e.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// URL returns the canonical display URL for the event.
func (e *Event) URL() string {
	return "/events/" + e.ID
}

// EmbeddingText builds the text the event is indexed under:
// title | description | category | tags, empty parts dropped.
func (e *Event) EmbeddingText() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{e.Title, e.Description, e.Category, e.Tags} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}
