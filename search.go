package streamevents

import (
	"context"
	"fmt"
	"time"
)

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit caps the number of results; 0 uses the client default.
	Limit int
	// IncludePast disables the upcoming-events filter.
	IncludePast bool
}

// SearchResult is one ranked event.
type SearchResult struct {
	ID          string
	Title       string
	Description string
	Category    string
	Tags        string
	ScheduledAt time.Time
	URL         string
	Score       float64
}

// Search runs a semantic query against the catalog and returns events in
// descending relevance order. Results below the relevance floor are never
// returned; an empty slice is a valid outcome.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) ([]SearchResult, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	ranked, err := c.search.Retrieve(ctx, query, !opts.IncludePast, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]SearchResult, len(ranked))
	for i, sc := range ranked {
		results[i] = SearchResult{
			ID:          sc.Event.ID,
			Title:       sc.Event.Title,
			Description: sc.Event.Description,
			Category:    sc.Event.Category,
			Tags:        sc.Event.Tags,
			ScheduledAt: sc.Event.ScheduledAt,
			URL:         sc.Event.URL(),
			Score:       sc.Score,
		}
	}
	return results, nil
}
