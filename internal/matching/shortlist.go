package matching

import (
	"sort"
	"strings"

	"hostel_picker/internal/domain"
)

// DefaultK is the canonical shortlist size.
const DefaultK = 15

// Options bound a shortlist. Zero values pick the defaults: K = DefaultK and
// FallbackPool = K.
type Options struct {
	K            int
	FallbackPool int
}

func (o Options) normalize() Options {
	if o.K <= 0 {
		o.K = DefaultK
	}
	if o.FallbackPool <= 0 {
		o.FallbackPool = o.K
	}
	return o
}

// Shortlist is a ranked selection. Fallback reports that no record matched
// the destination and the pool came from the head of the input instead.
type Shortlist struct {
	Candidates []domain.RankedCandidate `json:"candidates"`
	Fallback   bool                     `json:"fallback"`
	Pool       int                      `json:"pool"`
}

// Shortlist returns at most k candidates for p. k <= 0 yields none; use
// Select with zero Options for the default size.
func (e *Engine) Shortlist(records []domain.Record, p domain.UserProfile, k int) []domain.RankedCandidate {
	if k <= 0 {
		return []domain.RankedCandidate{}
	}
	return e.Select(records, p, Options{K: k}).Candidates
}

// Select filters records by destination, scores the pool and returns the top
// K by aggregate. Equal aggregates keep input order.
func (e *Engine) Select(records []domain.Record, p domain.UserProfile, opts Options) Shortlist {
	opts = opts.normalize()
	out := Shortlist{Candidates: []domain.RankedCandidate{}}
	if len(records) == 0 {
		return out
	}

	pool := FilterByLocation(records, p.Destination)
	if len(pool) == 0 {
		out.Fallback = true
		pool = records[:min(opts.FallbackPool, len(records))]
	}
	out.Pool = len(pool)

	ranked := make([]domain.RankedCandidate, len(pool))
	for i, r := range pool {
		ranked[i] = e.Rank(r, p)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Aggregate > ranked[j].Aggregate
	})
	if len(ranked) > opts.K {
		ranked = ranked[:opts.K]
	}
	out.Candidates = ranked
	return out
}

// FilterByLocation keeps records whose location equals destination, ignoring
// case and surrounding whitespace. An empty destination matches nothing.
func FilterByLocation(records []domain.Record, destination string) []domain.Record {
	want := strings.ToLower(strings.TrimSpace(destination))
	if want == "" {
		return nil
	}
	var out []domain.Record
	for _, r := range records {
		if fieldText(r, "location") == want {
			out = append(out, r)
		}
	}
	return out
}
