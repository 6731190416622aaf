// Package pipeline glues scrapers, parsers, the embedder and the vector
// store into per-kind ingest runs.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lexingest/internal/domain"
	"lexingest/internal/embed"
	"lexingest/internal/fetch"
	"lexingest/internal/ocr"
	"lexingest/internal/state"
	"lexingest/internal/store"
)

// Mode selects which year set and strategy a run uses.
type Mode string

const (
	// ModeDaily ingests the current and previous year.
	ModeDaily Mode = "daily"
	// ModeFull ingests an explicit year list, default 1267..current.
	ModeFull Mode = "full"
	// ModeAmendmentsLed re-scrapes only documents made stale by recent
	// amendments.
	ModeAmendmentsLed Mode = "amendments-led"
)

// firstLegislationYear is the earliest year on the statute book.
const firstLegislationYear = 1267

const upsertBatchSize = 32

// RunOptions configures one ingest run.
type RunOptions struct {
	Mode  Mode
	Limit int
	// Years overrides the mode's default year set (full mode only).
	Years []int
	// YearsBack is the amendments-led lookback window.
	YearsBack int
	Types     []domain.LegislationType
	Courts    []domain.Court

	EnablePDFFallback bool
	EnableSummaries   bool
	RunID             string
}

func (o *RunOptions) normalize(now time.Time) {
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
	if o.YearsBack <= 0 {
		o.YearsBack = 2
	}
	if len(o.Types) == 0 {
		o.Types = domain.AllLegislationTypes()
	}
	if len(o.Courts) == 0 {
		o.Courts = domain.AllCourts()
	}
	if len(o.Years) == 0 {
		switch o.Mode {
		case ModeFull:
			for y := firstLegislationYear; y <= now.Year(); y++ {
				o.Years = append(o.Years, y)
			}
		default:
			o.Years = []int{now.Year() - 1, now.Year()}
		}
	}
}

// Pipeline owns the shared dependencies of every run. The two sources
// get separate fetchers because their rate-limit profiles differ.
type Pipeline struct {
	Fetcher        *fetch.Fetcher
	CaselawFetcher *fetch.Fetcher
	Embedder       *embed.HybridEmbedder
	Store          *store.Store
	Oracle         *state.Oracle
	// Enricher drives stage-2 LLM enrichment; nil disables it.
	Enricher *Enricher
	// OCR drives the PDF fallback batch; nil disables it.
	OCR *ocr.BatchRunner

	LegislationBaseURL string
	CaselawBaseURL     string
	TrackingDir        string

	Logger *slog.Logger
}

// Run executes one ingest per the options: stage-1 scrape for every
// kind, then stage-2 enrichment over what stage 1 left in the store.
// On interrupt it stops scheduling new work, lets in-flight items
// finish and returns the accumulated stats with the context error.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Stats, error) {
	opts.normalize(time.Now())
	stats := NewStats(opts.RunID, string(opts.Mode))

	p.Logger.Info("ingest starting",
		"run_id", opts.RunID,
		"mode", opts.Mode,
		"years", len(opts.Years),
		"types", len(opts.Types),
		"courts", len(opts.Courts),
		"limit", opts.Limit)

	var err error
	switch opts.Mode {
	case ModeAmendmentsLed:
		err = p.runAmendmentsLed(ctx, opts, stats)
	case ModeDaily, ModeFull:
		err = p.runStage1(ctx, opts, stats)
	default:
		return stats, fmt.Errorf("unknown ingest mode %q", opts.Mode)
	}
	if err != nil {
		return stats, err
	}

	if opts.EnableSummaries && p.Enricher != nil {
		if err := p.runStage2(ctx, stats); err != nil {
			return stats, err
		}
	}

	if p.Oracle != nil {
		counts, err := p.Oracle.CountAll(ctx)
		if err != nil {
			p.Logger.Warn("store count report failed", "error", err)
		} else {
			stats.SetStoreCounts(counts)
		}
	}

	p.Logger.Info("ingest finished", "run_id", opts.RunID, "upserted", stats.Upserted)
	return stats, nil
}

func (p *Pipeline) runStage1(ctx context.Context, opts RunOptions, stats *Stats) error {
	if err := p.runAmendments(ctx, opts, stats); err != nil {
		return err
	}
	if err := p.runLegislation(ctx, opts, stats); err != nil {
		return err
	}
	return p.runCaselaw(ctx, opts, stats)
}

func (p *Pipeline) runStage2(ctx context.Context, stats *Stats) error {
	created, err := p.Enricher.SummariseCaselaw(ctx)
	stats.AddSummaries(created)
	if err != nil {
		return fmt.Errorf("summary generation: %w", err)
	}

	explained, err := p.Enricher.ExplainAmendments(ctx)
	stats.AddExplanations(explained)
	if err != nil {
		return fmt.Errorf("amendment explanation: %w", err)
	}
	return nil
}

// upsertRecords embeds a batch and writes it, grouped by kind.
func (p *Pipeline) upsertRecords(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.EmbedText()
	}
	vectors, err := p.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("batch embedding: %w", err)
	}

	byKind := make(map[domain.Kind][]store.Point)
	for i, r := range records {
		byKind[r.RecordKind()] = append(byKind[r.RecordKind()], store.PointFromRecord(r, vectors[i]))
	}
	for kind, points := range byKind {
		for start := 0; start < len(points); start += upsertBatchSize {
			end := min(start+upsertBatchSize, len(points))
			if err := p.Store.Upsert(ctx, kind, points[start:end]); err != nil {
				return err
			}
		}
	}
	return nil
}

// handleFailure applies the per-record error policy: recoverable
// categories log and continue, the rest abort the run.
func (p *Pipeline) handleFailure(url string, cat domain.ErrorCategory, err error, stats *Stats) error {
	if cat.Recoverable() {
		p.Logger.Warn("skipping record",
			"url", url,
			"error_category", cat,
			"error", err)
		stats.AddSkippedRecoverable(1)
		return nil
	}
	stats.AddAborted(1)
	return fmt.Errorf("non-recoverable %s at %s: %w", cat, url, err)
}
