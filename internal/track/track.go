// Package track appends URL-level success and failure records to JSONL
// files so an interrupted run can resume without refetching.
package track

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SuccessLine is one completed URL.
type SuccessLine struct {
	URL       string `json:"url"`
	UUID      string `json:"uuid"`
	RunID     string `json:"run_id"`
	DocType   string `json:"doc_type"`
	Year      int    `json:"year"`
	TypeValue string `json:"type_value"`
	DocDate   string `json:"doc_date,omitempty"`
	Timestamp string `json:"timestamp"`
}

// FailureLine is one URL that errored.
type FailureLine struct {
	URL       string `json:"url"`
	Error     string `json:"error"`
	RunID     string `json:"run_id"`
	DocType   string `json:"doc_type"`
	Year      int    `json:"year"`
	TypeValue string `json:"type_value"`
	Timestamp string `json:"timestamp"`
}

// Tracker owns one (kind, year, type) pair of tracking files. Appends are
// flushed per line so a crash loses at most the line in flight.
type Tracker struct {
	mu        sync.Mutex
	successes *os.File
	failures  *os.File
	seen      map[string]bool

	runID     string
	docType   string
	year      int
	typeValue string
}

// Open creates or reopens the tracking files for one (kind, year, type)
// combination and loads already-completed URLs for resume.
func Open(dir, runID, docType string, year int, typeValue string) (*Tracker, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tracking dir: %w", err)
	}

	base := fmt.Sprintf("%s_%d_%s", docType, year, typeValue)
	successPath := filepath.Join(dir, base+"_success.jsonl")
	failurePath := filepath.Join(dir, base+"_failures.jsonl")

	seen, err := loadSeen(successPath)
	if err != nil {
		return nil, err
	}

	successes, err := os.OpenFile(successPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", successPath, err)
	}
	failures, err := os.OpenFile(failurePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		_ = successes.Close()
		return nil, fmt.Errorf("failed to open %s: %w", failurePath, err)
	}

	return &Tracker{
		successes: successes,
		failures:  failures,
		seen:      seen,
		runID:     runID,
		docType:   docType,
		year:      year,
		typeValue: typeValue,
	}, nil
}

func loadSeen(path string) (map[string]bool, error) {
	seen := make(map[string]bool)

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return seen, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var line SuccessLine
		// Truncated or malformed lines from a crashed run are ignored.
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		if line.URL != "" {
			seen[line.URL] = true
		}
	}
	return seen, scanner.Err()
}

// DocType names the record kind this tracker covers.
func (t *Tracker) DocType() string { return t.docType }

// Done reports whether a URL already succeeded in a previous run.
func (t *Tracker) Done(url string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seen[url]
}

// Success appends a success line and marks the URL done.
func (t *Tracker) Success(url, uuid, docDate string) error {
	line := SuccessLine{
		URL:       url,
		UUID:      uuid,
		RunID:     t.runID,
		DocType:   t.docType,
		Year:      t.year,
		TypeValue: t.typeValue,
		DocDate:   docDate,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[url] = true
	return appendLine(t.successes, line)
}

// Failure appends a failure line. The URL stays eligible for retry on
// the next run.
func (t *Tracker) Failure(url string, cause error) error {
	line := FailureLine{
		URL:       url,
		Error:     cause.Error(),
		RunID:     t.runID,
		DocType:   t.docType,
		Year:      t.year,
		TypeValue: t.typeValue,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return appendLine(t.failures, line)
}

func appendLine(f *os.File, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal tracking line: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append tracking line: %w", err)
	}
	return nil
}

func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.successes.Close(); err != nil {
		_ = t.failures.Close()
		return err
	}
	return t.failures.Close()
}
