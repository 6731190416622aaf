package pipeline

import (
	"fmt"
	"sync"

	"lexingest/internal/track"
)

// trackerSet lazily opens one tracker per (year, type) combination seen
// during a run.
type trackerSet struct {
	mu      sync.Mutex
	dir     string
	runID   string
	docType string
	open    map[string]*track.Tracker
}

func newTrackerSet(dir, runID, docType string) *trackerSet {
	return &trackerSet{
		dir:     dir,
		runID:   runID,
		docType: docType,
		open:    make(map[string]*track.Tracker),
	}
}

func (ts *trackerSet) get(year int, typeValue string) (*track.Tracker, error) {
	key := fmt.Sprintf("%d/%s", year, typeValue)

	ts.mu.Lock()
	defer ts.mu.Unlock()
	if t, ok := ts.open[key]; ok {
		return t, nil
	}
	t, err := track.Open(ts.dir, ts.runID, ts.docType, year, typeValue)
	if err != nil {
		return nil, err
	}
	ts.open[key] = t
	return t, nil
}

func (ts *trackerSet) Close() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, t := range ts.open {
		_ = t.Close()
	}
	ts.open = make(map[string]*track.Tracker)
}
