package event

import (
	"testing"
)

func TestParseHashFieldsMalformedValues(t *testing.T) {
	e := parseHashFields("ev1", map[string]string{
		fieldTitle:       "Broken record",
		fieldMaxViewers:  "not-a-number",
		fieldScheduledAt: "yesterday-ish",
		fieldEmbedding:   "abc", // not a multiple of 4 bytes
	})

	if e.ID != "ev1" || e.Title != "Broken record" {
		t.Errorf("identity fields = %+v", e)
	}
	if e.MaxViewers != 0 {
		t.Errorf("MaxViewers = %d, want 0 for malformed value", e.MaxViewers)
	}
	if !e.ScheduledAt.IsZero() {
		t.Errorf("ScheduledAt = %v, want zero for malformed value", e.ScheduledAt)
	}
	if e.HasEmbedding() {
		t.Error("malformed embedding blob should parse as no embedding")
	}
}

func TestBuildHashFieldsSkipsEmbeddingWhenAbsent(t *testing.T) {
	e := sampleEvent("ev1")
	fields := buildHashFields(&e)
	if _, ok := fields[fieldEmbedding]; ok {
		t.Error("embedding field present for an unindexed event")
	}
	if fields[fieldScheduledAt] == "" {
		t.Error("scheduled_at missing")
	}
}
