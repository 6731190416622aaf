package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"lexingest/internal/metrics"
	"lexingest/internal/retry"
)

// Dimensions is the process-wide dense vector width.
const Dimensions = 1024

// maxInputChars truncates embedding input; the service rejects longer
// payloads.
const maxInputChars = 30000

// DenseEmbedder calls the remote embedding service.
type DenseEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
	retrier *retry.Retrier
	logger  *slog.Logger
}

func NewDenseEmbedder(baseURL, model string, client *http.Client, logger *slog.Logger) *DenseEmbedder {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	retrier := retry.New(retry.Config{
		MaxAttempts:   5,
		BaseDelay:     time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.2,
	}, func(error) bool { return true }, logger)

	return &DenseEmbedder{
		baseURL: baseURL,
		model:   model,
		client:  client,
		retrier: retrier,
		logger:  logger,
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns the 1024-D vector for one text. On final failure it
// returns a zero vector rather than an error so one bad record cannot
// halt a pipeline.
func (e *DenseEmbedder) Embed(ctx context.Context, text string) []float32 {
	text = truncateRunes(text, maxInputChars)

	var vector []float32
	err := e.retrier.Do(ctx, func() error {
		v, err := e.call(ctx, text)
		if err != nil {
			return err
		}
		vector = v
		return nil
	})
	if err != nil {
		e.logger.Error("dense embedding failed, returning zero vector", "error", err)
		return make([]float32, Dimensions)
	}
	return vector
}

// truncateRunes caps text at max bytes without splitting a UTF-8
// sequence, so the service never receives invalid input.
func truncateRunes(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func (e *DenseEmbedder) call(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.EmbedDuration.Observe(time.Since(start).Seconds()) }()

	body, err := json.Marshal(embedRequest{Model: e.model, Input: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embedding service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(decoded.Embeddings) == 0 || len(decoded.Embeddings[0]) != Dimensions {
		return nil, fmt.Errorf("embedding service returned %d vectors", len(decoded.Embeddings))
	}
	return decoded.Embeddings[0], nil
}
