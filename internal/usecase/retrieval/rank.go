package retrieval

import (
	"math"
	"sort"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
)

// Candidate pairs an event with its stored embedding for one ranking call.
type Candidate struct {
	Event  domain.Event
	Vector []float32
}

// Scored is an event with its cosine similarity against the query.
type Scored struct {
	Event domain.Event
	Score float64
}

// Skip reasons for candidates excluded from a ranking call.
const (
	skipZeroNorm    = "zero_norm"
	skipDimMismatch = "dim_mismatch"
)

// scoredOrSkipped is the per-candidate outcome: a score, or a skip reason.
// A malformed stored vector excludes that candidate only; it never fails
// the batch.
type scoredOrSkipped struct {
	scored  Scored
	skipped string
}

// RankTopK scores candidates by cosine similarity against the query vector
// and returns the top k in descending score order. Ties keep input order
// (the sort is stable), so results are deterministic for a given candidate
// order. Candidates whose vector has zero norm or a different dimensionality
// are skipped. Empty input or k <= 0 yields an empty result.
func RankTopK(query []float32, candidates []Candidate, k int) []Scored {
	if len(candidates) == 0 || k <= 0 || len(query) == 0 {
		return nil
	}

	ranked := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		out := scoreCandidate(query, c)
		if out.skipped != "" {
			continue
		}
		ranked = append(ranked, out.scored)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func scoreCandidate(query []float32, c Candidate) scoredOrSkipped {
	if len(c.Vector) != len(query) {
		return scoredOrSkipped{skipped: skipDimMismatch}
	}

	score, ok := cosineSimilarity(query, c.Vector)
	if !ok {
		return scoredOrSkipped{skipped: skipZeroNorm}
	}
	return scoredOrSkipped{scored: Scored{Event: c.Event, Score: score}}
}

// cosineSimilarity returns dot(a,b) / (|a| * |b|) in float64.
// ok is false when either vector has zero norm.
func cosineSimilarity(a, b []float32) (float64, bool) {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
