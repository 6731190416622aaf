package pipeline

import (
	"context"
	"fmt"

	"lexingest/internal/domain"
	"lexingest/internal/parse"
	"lexingest/internal/scrape"
)

func (p *Pipeline) runCaselaw(ctx context.Context, opts RunOptions, stats *Stats) error {
	trackers := newTrackerSet(p.TrackingDir, opts.RunID, string(domain.KindCaselaw))
	defer trackers.Close()

	scraper := &scrape.CaselawScraper{
		Fetcher: p.CaselawFetcher,
		BaseURL: p.CaselawBaseURL,
		Courts:  opts.Courts,
		Years:   opts.Years,
		Limit:   opts.Limit,
		Logger:  p.Logger,
	}

	var runErr error
	err := scraper.Scrape(ctx, func(item scrape.Item) bool {
		if ctx.Err() != nil {
			return false
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

		outcome := p.processCaselawItem(item)
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
		return fmt.Errorf("caselaw scrape: %w", err)
	}
	return ctx.Err()
}

func (p *Pipeline) processCaselawItem(item scrape.Item) domain.Outcome {
	if item.Skip != "" {
		return domain.Skip(item.URL, item.Skip)
	}

	judgment, sections, err := parse.Caselaw(item.URI, item.Body)
	if err != nil {
		return domain.Fail(item.URL, Categorize(err), err)
	}

	records := make([]domain.Record, 0, 1+len(sections))
	records = append(records, judgment)
	for _, s := range sections {
		records = append(records, s)
	}
	return domain.Ok(item.URL, records...)
}
