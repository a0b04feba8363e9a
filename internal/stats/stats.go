// Package stats keeps results of completed games within one process
// run. Nothing is written to disk; the history lives and dies with the
// process.
package stats

import (
	"sort"
	"time"
)

// Result records one completed game.
type Result struct {
	Moves   int
	Elapsed time.Duration
	When    time.Time
}

// Better reports whether r beats other: fewer moves wins, ties go to
// the faster time.
func (r Result) Better(other Result) bool {
	if r.Moves != other.Moves {
		return r.Moves < other.Moves
	}
	return r.Elapsed < other.Elapsed
}

// History accumulates results across restarts.
type History struct {
	results []Result
}

func NewHistory() *History {
	return &History{}
}

// Add appends a completed game.
func (h *History) Add(r Result) {
	h.results = append(h.results, r)
}

// Count returns the number of completed games this run.
func (h *History) Count() int {
	return len(h.results)
}

// Best returns the strongest result so far. The second return is false
// when no game has been completed yet.
func (h *History) Best() (Result, bool) {
	if len(h.results) == 0 {
		return Result{}, false
	}
	best := h.results[0]
	for _, r := range h.results[1:] {
		if r.Better(best) {
			best = r
		}
	}
	return best, true
}

// BestN returns up to n results ordered strongest first.
func (h *History) BestN(n int) []Result {
	ranked := make([]Result, len(h.results))
	copy(ranked, h.results)

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Better(ranked[j])
	})

	if len(ranked) < n {
		return ranked
	}
	return ranked[:n]
}
