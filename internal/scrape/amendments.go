package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lexingest/internal/fetch"
	"lexingest/internal/parse"
)

const amendmentsPerPage = 100

// AmendmentsScraper walks the changes-to-legislation index for a set of
// affected years, page by page, descending.
type AmendmentsScraper struct {
	Fetcher *fetch.Fetcher
	BaseURL string
	Years   []int
	Limit   int
	Logger  *slog.Logger
}

// Scrape yields one item per changes page. Walking stops for a year as
// soon as a page carries no results table.
func (s *AmendmentsScraper) Scrape(ctx context.Context, emit EmitFunc) error {
	budget := newLimiter(s.Limit)

	for _, year := range s.Years {
		page := 1
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if budget.exhausted() {
				return nil
			}

			pageURL := fmt.Sprintf(
				"%s/changes/affected/all/%d?results-count=%d&page=%d&sort=affecting-year-number&order=descending",
				s.BaseURL, year, amendmentsPerPage, page)

			resp, err := s.Fetcher.Get(ctx, pageURL)
			if errors.Is(err, fetch.ErrNotFound) {
				break
			}
			if err != nil {
				return fmt.Errorf("amendments page %s: %w", pageURL, err)
			}

			if !parse.HasResultsTable(resp.Body) {
				break
			}
			if !budget.take() {
				return nil
			}
			if !emit(Item{URL: pageURL, URI: pageURL, Body: resp.Body, Year: year, TypeValue: "amendments"}) {
				return nil
			}
			page++
		}
	}
	return nil
}
