package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"lexingest/internal/domain"
	"lexingest/internal/fetch"
	"lexingest/internal/parse"
)

// CaselawScraper enumerates judgments for a set of years and courts
// through the judgments search index, newest first.
type CaselawScraper struct {
	Fetcher *fetch.Fetcher
	BaseURL string
	Courts  []domain.Court
	Years   []int
	Limit   int
	Logger  *slog.Logger
}

// Scrape queries one from/to range per maximal consecutive year run and
// one court per query, following next links until exhausted.
func (s *CaselawScraper) Scrape(ctx context.Context, emit EmitFunc) error {
	budget := newLimiter(s.Limit)

	for _, run := range consecutiveRuns(s.Years) {
		for _, court := range s.Courts {
			if budget.exhausted() {
				return nil
			}
			if err := s.scrapeCourt(ctx, court, run[0], run[1], budget, emit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *CaselawScraper) scrapeCourt(ctx context.Context, court domain.Court, fromYear, toYear int, budget *limiter, emit EmitFunc) error {
	pageURL := fmt.Sprintf(
		"%s/judgments/search?from_date_0=1&from_date_1=1&from_date_2=%d&to_date_0=31&to_date_1=12&to_date_2=%d&court=%s&order=-date",
		s.BaseURL, fromYear, toYear, court)

	for pageURL != "" {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := s.Fetcher.Get(ctx, pageURL)
		if errors.Is(err, fetch.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("judgments listing %s: %w", pageURL, err)
		}

		listing, err := parse.Judgments(resp.Body, s.BaseURL)
		if err != nil {
			return err
		}

		for _, docURL := range listing.DocumentURLs {
			if !budget.take() {
				return nil
			}
			item, ok := s.fetchJudgment(ctx, docURL)
			if !ok {
				continue
			}
			item.Year = yearFromURL(docURL, toYear)
			item.TypeValue = string(court)
			if !emit(item) {
				return nil
			}
		}

		pageURL = listing.NextPage
	}
	return nil
}

// yearFromURL picks the four-digit year segment out of a judgment URL
// such as /ewca/civ/2023/1234. Queries span year ranges, so the range
// end is only a fallback for malformed URLs.
func yearFromURL(url string, fallback int) int {
	for _, seg := range strings.Split(url, "/") {
		if len(seg) != 4 {
			continue
		}
		year, err := strconv.Atoi(seg)
		if err == nil && year >= 1000 && year <= 2999 {
			return year
		}
	}
	return fallback
}

func (s *CaselawScraper) fetchJudgment(ctx context.Context, docURL string) (Item, bool) {
	xmlURL := docURL + "/data.xml"
	resp, err := s.Fetcher.Get(ctx, xmlURL)
	if errors.Is(err, fetch.ErrNotFound) {
		return Item{URL: xmlURL, URI: docURL, Skip: domain.ReasonPDFOnly}, true
	}
	if err != nil {
		s.Logger.Warn("judgment fetch failed", "url", xmlURL, "error", err)
		return Item{}, false
	}
	return Item{URL: xmlURL, URI: docURL, Body: resp.Body}, true
}
