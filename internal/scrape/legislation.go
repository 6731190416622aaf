package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lexingest/internal/domain"
	"lexingest/internal/fetch"
	"lexingest/internal/parse"
)

// LegislationScraper enumerates legislation documents for a set of
// (type, year) combinations through the paginated list feeds.
type LegislationScraper struct {
	Fetcher *fetch.Fetcher
	BaseURL string
	Types   []domain.LegislationType
	Years   []int
	Limit   int
	// FilterNew narrows a page of listed URIs to the ones worth
	// fetching. URIs it drops are emitted as exists skips without
	// spending budget or requests. Nil means fetch everything.
	FilterNew func(ctx context.Context, uris []string) ([]string, error)
	Logger    *slog.Logger
}

// Scrape yields one item per listed document: the fetched data.xml, or a
// pdf_only skip marker when the source has no XML rendition. Items within
// one (type, year) combination arrive in feed order.
func (s *LegislationScraper) Scrape(ctx context.Context, emit EmitFunc) error {
	budget := newLimiter(s.Limit)

	for _, typ := range s.Types {
		for _, year := range s.Years {
			if budget.exhausted() {
				return nil
			}
			if err := s.scrapeCombination(ctx, typ, year, budget, emit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *LegislationScraper) scrapeCombination(ctx context.Context, typ domain.LegislationType, year int, budget *limiter, emit EmitFunc) error {
	page := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		feedURL := fmt.Sprintf("%s/%s/%d/data.feed?page=%d", s.BaseURL, typ, year, page)
		resp, err := s.Fetcher.Get(ctx, feedURL)
		if errors.Is(err, fetch.ErrNotFound) {
			// No documents of this type for this year.
			return nil
		}
		if err != nil {
			return fmt.Errorf("legislation feed %s: %w", feedURL, err)
		}

		listing, err := parse.LegislationFeed(resp.Body)
		if err != nil {
			return err
		}
		if len(listing.DocumentURIs) == 0 {
			return nil
		}

		known, err := s.knownURIs(ctx, listing.DocumentURIs)
		if err != nil {
			return err
		}

		for _, uri := range listing.DocumentURIs {
			if known[uri] {
				item := Item{URL: uri + "/data.xml", URI: uri, Skip: domain.ReasonExists, Year: year, TypeValue: string(typ)}
				if !emit(item) {
					return nil
				}
				continue
			}
			if !budget.take() {
				return nil
			}
			item, ok := s.fetchDocument(ctx, uri, typ, year)
			if !ok {
				continue
			}
			if !emit(item) {
				return nil
			}
		}

		if !listing.MorePages {
			return nil
		}
		page++
	}
}

// knownURIs inverts FilterNew into a lookup of URIs to skip.
func (s *LegislationScraper) knownURIs(ctx context.Context, uris []string) (map[string]bool, error) {
	if s.FilterNew == nil {
		return nil, nil
	}
	fresh, err := s.FilterNew(ctx, uris)
	if err != nil {
		return nil, fmt.Errorf("existence check: %w", err)
	}
	wanted := make(map[string]bool, len(fresh))
	for _, uri := range fresh {
		wanted[uri] = true
	}
	known := make(map[string]bool, len(uris)-len(fresh))
	for _, uri := range uris {
		if !wanted[uri] {
			known[uri] = true
		}
	}
	return known, nil
}

func (s *LegislationScraper) fetchDocument(ctx context.Context, uri string, typ domain.LegislationType, year int) (Item, bool) {
	docURL := uri + "/data.xml"
	resp, err := s.Fetcher.Get(ctx, docURL)
	if errors.Is(err, fetch.ErrNotFound) {
		// The document exists only as a PDF; mark processed so it is
		// never refetched outside the OCR fallback.
		return Item{URL: docURL, URI: uri, Skip: domain.ReasonPDFOnly, Year: year, TypeValue: string(typ)}, true
	}
	if err != nil {
		s.Logger.Warn("legislation fetch failed",
			"url", docURL, "year", year, "doc_type", typ, "error", err)
		return Item{}, false
	}
	return Item{URL: docURL, URI: uri, Body: resp.Body, Year: year, TypeValue: string(typ)}, true
}
