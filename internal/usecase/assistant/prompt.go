package assistant

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexnavarro1/StreamEvents/internal/usecase/retrieval"
)

// EventContext is the compact per-event summary handed to the generator and
// exposed in the stream's metadata frame.
type EventContext struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	ScheduledDate string  `json:"scheduled_date,omitempty"`
	Category      string  `json:"category"`
	Tags          string  `json:"tags"`
	URL           string  `json:"url"`
	Score         float64 `json:"score"`
}

// NewEventContext summarizes one ranked result. The score is rounded to
// 3 decimals; the full-precision value never leaves the pipeline.
func NewEventContext(s retrieval.Scored) EventContext {
	ec := EventContext{
		ID:       s.Event.ID,
		Title:    s.Event.Title,
		Category: s.Event.Category,
		Tags:     s.Event.Tags,
		URL:      s.Event.URL(),
		Score:    math.Round(s.Score*1000) / 1000,
	}
	if !s.Event.ScheduledAt.IsZero() {
		ec.ScheduledDate = s.Event.ScheduledAt.Format(time.RFC3339)
	}
	return ec
}

// BuildContext summarizes all ranked results in order.
func BuildContext(ranked []retrieval.Scored) []EventContext {
	out := make([]EventContext, len(ranked))
	for i, s := range ranked {
		out[i] = NewEventContext(s)
	}
	return out
}

const promptTemplate = `You are an assistant that recommends events from the StreamEvents site.
IMPORTANT:
- You may ONLY recommend events that appear in the CONTEXT.
- Be smart about it: relate concepts in the user's request to broader categories (for example, relate 'football', 'basketball' or a sports team to the 'sports' category, 'podcast' to 'talk', and so on).
- Never invent events, dates, or URLs.
- If you genuinely think none of the events in the context is even a loose match, say so and ask for clarification.

Reply in the language of the user's request, as friendly explanatory text. Do not use JSON. Recommend the events by talking about them and giving context.

CONTEXT (list of available events):
%s

User request: %s`

// BuildPrompt assembles the instruction block for the generator: the
// grounding constraints, the JSON-encoded context payload, and the query.
func BuildPrompt(query string, events []EventContext) (string, error) {
	if events == nil {
		events = []EventContext{}
	}
	ctxJSON, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal context payload: %w", err)
	}
	return strings.TrimSpace(fmt.Sprintf(promptTemplate, ctxJSON, query)), nil
}
