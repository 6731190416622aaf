package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"lexingest/internal/domain"
	"lexingest/internal/fetch"
	"lexingest/internal/metrics"
	"lexingest/internal/parse"
	"lexingest/internal/scrape"
	"lexingest/internal/track"
)

func (p *Pipeline) runLegislation(ctx context.Context, opts RunOptions, stats *Stats) error {
	trackers := newTrackerSet(p.TrackingDir, opts.RunID, string(domain.KindLegislation))
	defer trackers.Close()

	var pdfFallback []string

	scraper := &scrape.LegislationScraper{
		Fetcher: p.Fetcher,
		BaseURL: p.LegislationBaseURL,
		Types:   opts.Types,
		Years:   opts.Years,
		Limit:   opts.Limit,
		Logger:  p.Logger,
	}
	if p.Oracle != nil {
		// Listing URIs are the canonical document ids, so the store
		// itself answers "already ingested" before any document fetch.
		scraper.FilterNew = func(ctx context.Context, uris []string) ([]string, error) {
			return p.Oracle.FilterNew(ctx, domain.KindLegislation, uris)
		}
	}

	var runErr error
	err := scraper.Scrape(ctx, func(item scrape.Item) bool {
		if ctx.Err() != nil {
			return false
		}
		if item.Skip == domain.ReasonExists {
			stats.AddSkippedExisting(1)
			return true
		}
		stats.AddScraped(1)

		tracker, err := trackers.get(item.Year, item.TypeValue)
		if err != nil {
			runErr = err
			return false
		}
		if tracker.Done(item.URL) {
			stats.AddSkippedExisting(1)
			return true
		}

		outcome := p.processLegislationItem(ctx, item, &pdfFallback)
		if err := p.finishOutcome(ctx, tracker, outcome, stats); err != nil {
			runErr = err
			return false
		}
		return true
	})
	if runErr != nil {
		return runErr
	}
	if err != nil {
		return fmt.Errorf("legislation scrape: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return p.runPDFFallback(ctx, opts, pdfFallback)
}

func (p *Pipeline) processLegislationItem(ctx context.Context, item scrape.Item, pdfFallback *[]string) domain.Outcome {
	if item.Skip != "" {
		return domain.Skip(item.URL, item.Skip)
	}

	leg, sections, err := parse.Legislation(item.URI, item.Body)
	if errors.Is(err, parse.ErrNoBody) {
		if pdfURL := parse.PDFLink(item.Body); pdfURL != "" {
			*pdfFallback = append(*pdfFallback, pdfURL)
		}
		return domain.Skip(item.URL, domain.ReasonPDFOnly)
	}
	if err != nil {
		return domain.Fail(item.URL, Categorize(err), err)
	}

	records := make([]domain.Record, 0, 1+len(sections))
	records = append(records, leg)
	for _, s := range sections {
		records = append(records, s)
	}
	records = append(records, p.fetchNotes(ctx, item.URI)...)

	return domain.Ok(item.URL, records...)
}

// fetchNotes pulls the explanatory notes published alongside an act.
// Acts without notes 404; that and any parse trouble just mean no note
// records.
func (p *Pipeline) fetchNotes(ctx context.Context, uri string) []domain.Record {
	notesURL := uri + "/notes/data.xml"
	resp, err := p.Fetcher.Get(ctx, notesURL)
	if errors.Is(err, fetch.ErrNotFound) {
		return nil
	}
	if err != nil {
		p.Logger.Warn("explanatory notes fetch failed", "url", notesURL, "error", err)
		return nil
	}

	notes, err := parse.ExplanatoryNotes(uri, resp.Body)
	if err != nil {
		p.Logger.Warn("explanatory notes parse failed", "url", notesURL, "error", err)
		return nil
	}

	records := make([]domain.Record, len(notes))
	for i, n := range notes {
		records[i] = n
	}
	return records
}

// finishOutcome applies tracking, stats and the error policy for one
// processed item.
func (p *Pipeline) finishOutcome(ctx context.Context, tracker *track.Tracker, o domain.Outcome, stats *Stats) error {
	switch {
	case o.IsSkip():
		if o.SkipReason() == domain.ReasonPDFOnly {
			stats.AddPDFOnly(1)
		}
		metrics.DocumentsScraped.WithLabelValues(tracker.DocType(), "skip").Inc()
		// Terminal marker so the URL is never refetched.
		if err := tracker.Success(o.URL, "", ""); err != nil {
			return err
		}
	case o.IsFail():
		metrics.DocumentsScraped.WithLabelValues(tracker.DocType(), "fail").Inc()
		if err := tracker.Failure(o.URL, o.Err()); err != nil {
			return err
		}
		if err := p.handleFailure(o.URL, o.Category(), o.Err(), stats); err != nil {
			return err
		}
	default:
		stats.AddParsed(len(o.Records))
		if err := p.upsertRecords(ctx, o.Records); err != nil {
			return err
		}
		stats.AddUpserted(len(o.Records))
		metrics.DocumentsScraped.WithLabelValues(tracker.DocType(), "ok").Inc()

		var uuid string
		if len(o.Records) > 0 {
			uuid = domain.PointID(o.Records[0].URI())
		}
		if err := tracker.Success(o.URL, uuid, ""); err != nil {
			return err
		}
	}
	return nil
}

// runPDFFallback hands PDF-only documents to the OCR batch when the run
// asked for it. Each URL gets a HEAD pre-check first; metadata sometimes
// advertises PDFs the source no longer serves, and an OCR slot is far
// more expensive than one HEAD request.
func (p *Pipeline) runPDFFallback(ctx context.Context, opts RunOptions, pdfURLs []string) error {
	if !opts.EnablePDFFallback || p.OCR == nil || len(pdfURLs) == 0 {
		return nil
	}

	live := p.filterLivePDFs(ctx, pdfURLs)
	if len(live) == 0 {
		return nil
	}

	outputPath := filepath.Join(p.TrackingDir, "ocr_batch.jsonl")
	if err := p.OCR.Run(ctx, live, outputPath); err != nil {
		return fmt.Errorf("pdf fallback batch: %w", err)
	}
	return nil
}

// filterLivePDFs drops URLs the source answers 404 for. Other failures
// keep the URL; the OCR batch retries on its own terms.
func (p *Pipeline) filterLivePDFs(ctx context.Context, pdfURLs []string) []string {
	live := make([]string, 0, len(pdfURLs))
	for _, url := range pdfURLs {
		if ctx.Err() != nil {
			return live
		}
		_, err := p.Fetcher.Head(ctx, url)
		if errors.Is(err, fetch.ErrNotFound) {
			p.Logger.Warn("advertised PDF is gone, skipping OCR", "url", url)
			continue
		}
		live = append(live, url)
	}
	return live
}
