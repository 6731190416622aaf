package ocr

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// resultLine is the persisted form of one finished document in the
// batch output file.
type resultLine struct {
	SourceURL     string  `json:"source_url"`
	Markdown      string  `json:"markdown"`
	PageCount     int     `json:"page_count"`
	Model         string  `json:"model"`
	PromptVersion string  `json:"prompt_version"`
	StartedAt     string  `json:"started_at"`
	CompletedAt   string  `json:"completed_at"`
	ProcessingSec float64 `json:"processing_time_seconds"`
	InputTokens   int64   `json:"input_tokens"`
	OutputTokens  int64   `json:"output_tokens"`
	CachedTokens  int64   `json:"cached_tokens"`
	Error         string  `json:"error,omitempty"`
}

// BatchRunner drives extraction over a list of PDF URLs with a bounded
// worker pool, persisting each result as a JSONL line. Rerunning with
// the same output file skips URLs that already completed.
type BatchRunner struct {
	extractor *Extractor
	client    *http.Client
	workers   int
	logger    *slog.Logger

	mu  sync.Mutex
	out *os.File
}

func NewBatchRunner(extractor *Extractor, client *http.Client, workers int, logger *slog.Logger) *BatchRunner {
	if workers <= 0 {
		workers = 10
	}
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &BatchRunner{extractor: extractor, client: client, workers: workers, logger: logger}
}

// Run processes every URL not already present in the output file.
// Individual document failures are recorded and do not stop the batch.
func (r *BatchRunner) Run(ctx context.Context, urls []string, outputPath string) error {
	done, err := loadCompleted(outputPath)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open batch output: %w", err)
	}
	r.out = out
	defer func() { _ = out.Close() }()

	pending := make([]string, 0, len(urls))
	for _, u := range urls {
		if !done[u] {
			pending = append(pending, u)
		}
	}
	r.logger.Info("ocr batch starting",
		"total", len(urls),
		"already_done", len(urls)-len(pending),
		"workers", r.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, url := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.processOne(gctx, url)
			return nil
		})
	}
	return g.Wait()
}

func (r *BatchRunner) processOne(ctx context.Context, url string) {
	pdf, err := r.download(ctx, url)
	if err != nil {
		r.logger.Error("pdf download failed", "url", url, "error", err)
		r.write(resultLine{SourceURL: url, Error: err.Error(), CompletedAt: time.Now().UTC().Format(time.RFC3339)})
		return
	}

	result, err := r.extractor.Extract(ctx, url, pdf)
	if err != nil {
		r.logger.Error("extraction failed", "url", url, "error", err)
		r.write(resultLine{SourceURL: url, Error: err.Error(), CompletedAt: time.Now().UTC().Format(time.RFC3339)})
		return
	}

	r.write(resultLine{
		SourceURL:     result.SourceURL,
		Markdown:      result.Markdown,
		PageCount:     result.PageCount,
		Model:         result.Model,
		PromptVersion: result.PromptVersion,
		StartedAt:     result.StartedAt.Format(time.RFC3339),
		CompletedAt:   result.CompletedAt.Format(time.RFC3339),
		ProcessingSec: result.CompletedAt.Sub(result.StartedAt).Seconds(),
		InputTokens:   result.InputTokens,
		OutputTokens:  result.OutputTokens,
		CachedTokens:  result.CachedTokens,
	})
}

func (r *BatchRunner) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pdf fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (r *BatchRunner) write(line resultLine) {
	data, err := json.Marshal(line)
	if err != nil {
		r.logger.Error("failed to marshal batch result", "url", line.SourceURL, "error", err)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.out.Write(append(data, '\n')); err != nil {
		r.logger.Error("failed to append batch result", "url", line.SourceURL, "error", err)
	}
}

// loadCompleted collects source URLs that finished without error in a
// previous run of the same output file.
func loadCompleted(path string) (map[string]bool, error) {
	done := make(map[string]bool)

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return done, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read batch output: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		var line resultLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		if line.SourceURL != "" && line.Error == "" {
			done[line.SourceURL] = true
		}
	}
	return done, scanner.Err()
}
