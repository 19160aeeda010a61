package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestEventHasEmbedding(t *testing.T) {
	e := Event{}
	if e.HasEmbedding() {
		t.Error("event without vector reported as embedded")
	}
	e.Embedding = []float32{0.1, 0.2}
	if !e.HasEmbedding() {
		t.Error("event with vector reported as not embedded")
	}
}

func TestEventIsUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		scheduled time.Time
		want      bool
	}{
		{"past", now.Add(-time.Hour), false},
		{"exactly now", now, true},
		{"future", now.Add(time.Hour), true},
	}
	for _, tc := range tests {
		e := Event{ScheduledAt: tc.scheduled}
		if got := e.IsUpcoming(now); got != tc.want {
			t.Errorf("%s: IsUpcoming = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEventTagList(t *testing.T) {
	tests := []struct {
		tags string
		want []string
	}{
		{"gaming, fun", []string{"gaming", "fun"}},
		{" live ,, music ", []string{"live", "music"}},
		{"", nil},
		{",,", nil},
	}
	for _, tc := range tests {
		e := Event{Tags: tc.tags}
		if got := e.TagList(); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("TagList(%q) = %v, want %v", tc.tags, got, tc.want)
		}
	}
}

func TestEventEmbeddingText(t *testing.T) {
	e := Event{
		Title:       "Champions League Final",
		Description: "Live watch party",
		Category:    CategorySports,
		Tags:        "football, final",
	}
	want := "Champions League Final | Live watch party | sports | football, final"
	if got := e.EmbeddingText(); got != want {
		t.Errorf("EmbeddingText = %q, want %q", got, want)
	}

	blank := Event{Title: "  Solo title  "}
	if got := blank.EmbeddingText(); got != "Solo title" {
		t.Errorf("EmbeddingText with blank parts = %q", got)
	}
}

func TestEventURL(t *testing.T) {
	e := Event{ID: "42"}
	if got := e.URL(); got != "/events/42" {
		t.Errorf("URL = %q", got)
	}
}
