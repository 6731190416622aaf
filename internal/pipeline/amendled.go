package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lexingest/internal/domain"
	"lexingest/internal/fetch"
	"lexingest/internal/scrape"
	"lexingest/internal/track"
)

// runAmendmentsLed is the smart incremental mode: scrape recent
// amendments, ask the oracle which changed documents are stale, and
// re-scrape only those.
func (p *Pipeline) runAmendmentsLed(ctx context.Context, opts RunOptions, stats *Stats) error {
	now := time.Now()
	fromYear := now.Year() - opts.YearsBack + 1

	amendOpts := opts
	amendOpts.Years = nil
	for y := fromYear; y <= now.Year(); y++ {
		amendOpts.Years = append(amendOpts.Years, y)
	}
	if err := p.runAmendments(ctx, amendOpts, stats); err != nil {
		return err
	}

	amendments, err := p.Oracle.AmendmentsSince(ctx, fromYear)
	if err != nil {
		return err
	}
	stale, err := p.Oracle.StaleDocuments(ctx, amendments, now)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		p.Logger.Info("no stale documents", "amendments", len(amendments))
		return nil
	}

	tracker, err := track.Open(p.TrackingDir, opts.RunID, string(domain.KindLegislation), now.Year(), "amendments-led")
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	for _, doc := range stale {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.refreshDocument(ctx, tracker, doc.ChangedURL, stats); err != nil {
			return err
		}
	}

	p.Logger.Info("amendments-led refresh complete",
		"amendments", len(amendments),
		"refreshed", len(stale))
	return nil
}

// refreshDocument re-fetches one changed document directly by its
// canonical URL, bypassing the feed walk.
func (p *Pipeline) refreshDocument(ctx context.Context, tracker *track.Tracker, uri string, stats *Stats) error {
	xmlURL := uri + "/data.xml"
	stats.AddScraped(1)

	resp, err := p.Fetcher.Get(ctx, xmlURL)
	if errors.Is(err, fetch.ErrNotFound) {
		return p.finishOutcome(ctx, tracker, domain.Skip(xmlURL, domain.ReasonPDFOnly), stats)
	}
	if err != nil {
		return p.finishOutcome(ctx, tracker, domain.Fail(xmlURL, Categorize(err), fmt.Errorf("refresh %s: %w", uri, err)), stats)
	}

	item := scrape.Item{URL: xmlURL, URI: uri, Body: resp.Body}
	var pdfFallback []string
	return p.finishOutcome(ctx, tracker, p.processLegislationItem(ctx, item, &pdfFallback), stats)
}
