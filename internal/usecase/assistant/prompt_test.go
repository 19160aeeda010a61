package assistant

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
	"github.com/alexnavarro1/StreamEvents/internal/usecase/retrieval"
)

func TestNewEventContext(t *testing.T) {
	s := retrieval.Scored{
		Event: domain.Event{
			ID:          "ev42",
			Title:       "Jazz marathon",
			Category:    domain.CategoryMusic,
			Tags:        "jazz, live",
			ScheduledAt: time.Date(2026, 10, 3, 21, 30, 0, 0, time.UTC),
		},
		Score: 0.8237501,
	}

	ec := NewEventContext(s)
	if ec.ID != "ev42" || ec.Title != "Jazz marathon" {
		t.Errorf("identity fields = %+v", ec)
	}
	if ec.URL != "/events/ev42" {
		t.Errorf("URL = %q, want /events/ev42", ec.URL)
	}
	if ec.ScheduledDate != "2026-10-03T21:30:00Z" {
		t.Errorf("ScheduledDate = %q", ec.ScheduledDate)
	}
	if ec.Score != 0.824 {
		t.Errorf("Score = %v, want rounded to 3 decimals", ec.Score)
	}
}

func TestNewEventContextZeroDate(t *testing.T) {
	ec := NewEventContext(retrieval.Scored{Event: domain.Event{ID: "ev1"}})
	if ec.ScheduledDate != "" {
		t.Errorf("ScheduledDate = %q, want empty for zero time", ec.ScheduledDate)
	}
	b, err := json.Marshal(ec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "scheduled_date") {
		t.Errorf("zero date serialized: %s", b)
	}
}

func TestBuildContextKeepsOrder(t *testing.T) {
	ranked := []retrieval.Scored{
		{Event: domain.Event{ID: "a"}, Score: 0.9},
		{Event: domain.Event{ID: "b"}, Score: 0.5},
	}
	ctx := BuildContext(ranked)
	if len(ctx) != 2 || ctx[0].ID != "a" || ctx[1].ID != "b" {
		t.Errorf("BuildContext() = %+v", ctx)
	}
}

func TestBuildPrompt(t *testing.T) {
	events := []EventContext{{ID: "ev1", Title: "Derby night", Category: "sports", URL: "/events/ev1", Score: 0.91}}
	prompt, err := BuildPrompt("any football tonight?", events)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}

	for _, want := range []string{
		"ONLY recommend events that appear in the CONTEXT",
		"Never invent events, dates, or URLs",
		"\"Derby night\"",
		"User request: any football tonight?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptEmptyContext(t *testing.T) {
	prompt, err := BuildPrompt("anything on?", nil)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}
	if !strings.Contains(prompt, "[]") {
		t.Error("empty context not rendered as an empty JSON array")
	}
	if !strings.Contains(prompt, "ask for clarification") {
		t.Error("prompt lost the clarification instruction")
	}
}
