package scrape

import (
	"sort"
	"sync"

	"lexingest/internal/domain"
)

// Item is one yielded (source_url, raw_document) pair. A non-empty Skip
// marks a terminal processed-but-unusable URL the pipeline must record and
// never retry.
type Item struct {
	URL       string
	URI       string
	Body      []byte
	Skip      domain.SkipReason
	Year      int
	TypeValue string
}

// EmitFunc receives items in source order. Returning false stops the
// scraper early.
type EmitFunc func(Item) bool

// limiter tracks the remaining item budget shared across (year, type)
// combinations within one scraper run.
type limiter struct {
	mu        sync.Mutex
	remaining int
	unbounded bool
}

func newLimiter(limit int) *limiter {
	return &limiter{remaining: limit, unbounded: limit <= 0}
}

// take consumes one unit of budget; false means the budget is spent.
func (l *limiter) take() bool {
	if l.unbounded {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.remaining <= 0 {
		return false
	}
	l.remaining--
	return true
}

func (l *limiter) exhausted() bool {
	if l.unbounded {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining <= 0
}

// consecutiveRuns splits a year set into maximal consecutive ascending
// runs. The judgments index takes one from/to range per query, so
// non-consecutive year sets become several queries rather than an error.
func consecutiveRuns(years []int) [][2]int {
	if len(years) == 0 {
		return nil
	}
	sorted := append([]int{}, years...)
	sort.Ints(sorted)

	var runs [][2]int
	start, prev := sorted[0], sorted[0]
	for _, y := range sorted[1:] {
		if y == prev || y == prev+1 {
			prev = y
			continue
		}
		runs = append(runs, [2]int{start, prev})
		start, prev = y, y
	}
	runs = append(runs, [2]int{start, prev})
	return runs
}
