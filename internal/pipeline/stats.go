package pipeline

import (
	"encoding/json"
	"sync"
	"time"

	"lexingest/internal/domain"
)

// Stats accumulates per-run counters across concurrent workers.
type Stats struct {
	mu sync.Mutex

	RunID     string    `json:"run_id"`
	Mode      string    `json:"mode"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`

	Scraped            int `json:"scraped"`
	Parsed             int `json:"parsed"`
	Upserted           int `json:"upserted"`
	SkippedExisting    int `json:"skipped_existing"`
	SkippedRecoverable int `json:"skipped_recoverable"`
	PDFOnly            int `json:"pdf_only"`
	Failed             int `json:"failed"`
	Summaries          int `json:"summaries"`
	Explanations       int `json:"explanations"`
	Aborted            int `json:"aborted"`

	// StoreCounts is the post-run point count per collection.
	StoreCounts map[string]uint64 `json:"store_counts,omitempty"`
}

func NewStats(runID, mode string) *Stats {
	return &Stats{RunID: runID, Mode: mode, StartedAt: time.Now().UTC()}
}

func (s *Stats) add(field *int, n int) {
	s.mu.Lock()
	*field += n
	s.mu.Unlock()
}

func (s *Stats) AddScraped(n int)            { s.add(&s.Scraped, n) }
func (s *Stats) AddParsed(n int)             { s.add(&s.Parsed, n) }
func (s *Stats) AddUpserted(n int)           { s.add(&s.Upserted, n) }
func (s *Stats) AddSkippedExisting(n int)    { s.add(&s.SkippedExisting, n) }
func (s *Stats) AddSkippedRecoverable(n int) { s.add(&s.SkippedRecoverable, n) }
func (s *Stats) AddPDFOnly(n int)            { s.add(&s.PDFOnly, n) }
func (s *Stats) AddFailed(n int)             { s.add(&s.Failed, n) }
func (s *Stats) AddSummaries(n int)          { s.add(&s.Summaries, n) }
func (s *Stats) AddExplanations(n int)       { s.add(&s.Explanations, n) }
func (s *Stats) AddAborted(n int)            { s.add(&s.Aborted, n) }

// SetStoreCounts records the post-run collection sizes, keyed by
// collection name for the JSON report.
func (s *Stats) SetStoreCounts(counts map[domain.Kind]uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreCounts = make(map[string]uint64, len(counts))
	for kind, n := range counts {
		s.StoreCounts[kind.Collection()] = n
	}
}

// JSON renders the final report, stamping the duration.
func (s *Stats) JSON() string {
	s.mu.Lock()
	s.Duration = time.Since(s.StartedAt).Round(time.Second).String()
	data, err := json.MarshalIndent(s, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return "{}"
	}
	return string(data)
}
