package pipeline

import (
	"context"
	"fmt"

	"lexingest/internal/domain"
	"lexingest/internal/parse"
	"lexingest/internal/scrape"
)

// runAmendments walks the changes index for the run's years. Each page
// of the table becomes a batch of amendment edge records.
func (p *Pipeline) runAmendments(ctx context.Context, opts RunOptions, stats *Stats) error {
	trackers := newTrackerSet(p.TrackingDir, opts.RunID, string(domain.KindAmendment))
	defer trackers.Close()

	scraper := &scrape.AmendmentsScraper{
		Fetcher: p.Fetcher,
		BaseURL: p.LegislationBaseURL,
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

		outcome := p.processAmendmentsPage(item)
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
		return fmt.Errorf("amendments scrape: %w", err)
	}
	return ctx.Err()
}

func (p *Pipeline) processAmendmentsPage(item scrape.Item) domain.Outcome {
	amendments, err := parse.Amendments(item.Body)
	if err != nil {
		return domain.Fail(item.URL, Categorize(err), err)
	}
	if len(amendments) == 0 {
		return domain.Skip(item.URL, domain.ReasonMalformed)
	}

	records := make([]domain.Record, len(amendments))
	for i, a := range amendments {
		records[i] = a
	}
	return domain.Ok(item.URL, records...)
}
