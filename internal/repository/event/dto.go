package event

import (
	"strconv"
	"time"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
	"github.com/alexnavarro1/StreamEvents/internal/repository/vectorcodec"
)

// Hash field names for the stored event record.
const (
	fieldTitle          = "title"
	fieldDescription    = "description"
	fieldCategory       = "category"
	fieldTags           = "tags"
	fieldStatus         = "status"
	fieldScheduledAt    = "scheduled_at"
	fieldStreamURL      = "stream_url"
	fieldMaxViewers     = "max_viewers"
	fieldIsFeatured     = "is_featured"
	fieldCreatedAt      = "created_at"
	fieldEmbedding      = "embedding"
	fieldEmbeddingModel = "embedding_model"
	fieldEmbeddedAt     = "embedded_at"
)

// buildHashFields converts a domain Event into a flat map[string]string for
// HSET. The embedding is packed as a float32 blob; zero times are stored as
// empty strings.
func buildHashFields(e *domain.Event) map[string]string {
	m := map[string]string{
		fieldTitle:       e.Title,
		fieldDescription: e.Description,
		fieldCategory:    e.Category,
		fieldTags:        e.Tags,
		fieldStatus:      e.Status,
		fieldStreamURL:   e.StreamURL,
		fieldMaxViewers:  strconv.Itoa(e.MaxViewers),
		fieldIsFeatured:  strconv.FormatBool(e.IsFeatured),
		fieldScheduledAt: timeToField(e.ScheduledAt),
		fieldCreatedAt:   timeToField(e.CreatedAt),
	}
	if e.HasEmbedding() {
		m[fieldEmbedding] = string(vectorcodec.Encode(e.Embedding))
		m[fieldEmbeddingModel] = e.EmbeddingModel
		m[fieldEmbeddedAt] = timeToField(e.EmbeddedAt)
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Event.
// Malformed numeric or time fields degrade to zero values; a malformed
// embedding blob degrades to no embedding, which excludes the event from
// ranking without failing the read.
func parseHashFields(id string, m map[string]string) domain.Event {
	e := domain.Event{
		ID:             id,
		Title:          m[fieldTitle],
		Description:    m[fieldDescription],
		Category:       m[fieldCategory],
		Tags:           m[fieldTags],
		Status:         m[fieldStatus],
		StreamURL:      m[fieldStreamURL],
		EmbeddingModel: m[fieldEmbeddingModel],
		ScheduledAt:    fieldToTime(m[fieldScheduledAt]),
		CreatedAt:      fieldToTime(m[fieldCreatedAt]),
		EmbeddedAt:     fieldToTime(m[fieldEmbeddedAt]),
	}
	if v, err := strconv.Atoi(m[fieldMaxViewers]); err == nil {
		e.MaxViewers = v
	}
	if v, err := strconv.ParseBool(m[fieldIsFeatured]); err == nil {
		e.IsFeatured = v
	}
	if blob := m[fieldEmbedding]; blob != "" {
		if vec, err := vectorcodec.Decode([]byte(blob)); err == nil {
			e.Embedding = vec
		}
	}
	return e
}

func timeToField(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fieldToTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
