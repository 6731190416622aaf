// Package state answers "what do we already have" questions against the
// vector store, replacing file-based checkpoints.
package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"lexingest/internal/domain"
	"lexingest/internal/store"
)

// Oracle wraps the store with existence and staleness queries.
type Oracle struct {
	store  *store.Store
	logger *slog.Logger
}

func NewOracle(st *store.Store, logger *slog.Logger) *Oracle {
	return &Oracle{store: st, logger: logger}
}

// FilterNew returns the subset of ids with no point in the kind's
// collection. Input order is preserved.
func (o *Oracle) FilterNew(ctx context.Context, kind domain.Kind, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	pointIDs := make([]string, len(ids))
	for i, id := range ids {
		pointIDs[i] = domain.PointID(id)
	}
	existing, err := o.store.Retrieve(ctx, kind, pointIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing %s points: %w", kind, err)
	}

	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.ID] = true
	}

	fresh := make([]string, 0, len(ids))
	for i, id := range ids {
		if !seen[pointIDs[i]] {
			fresh = append(fresh, id)
		}
	}

	o.logger.Debug("existence check",
		"kind", kind,
		"candidates", len(ids),
		"new", len(fresh))
	return fresh, nil
}

// StaleDocument is one legislation id the amendment-led mode must
// re-scrape, with why.
type StaleDocument struct {
	ChangedURL       string
	MaxAffectingYear int
	// Missing is true when the legislation collection has no point at all.
	Missing bool
}

// maxAffectingYears folds the amendments scraped in this run down to one
// max affecting year per changed document.
func maxAffectingYears(amendments []domain.Amendment) map[string]int {
	byURL := make(map[string]int)
	for _, a := range amendments {
		if a.AffectingYear > byURL[a.ChangedURL] {
			byURL[a.ChangedURL] = a.AffectingYear
		}
	}
	return byURL
}

// StaleDocuments reports which changed documents need a re-scrape: those
// missing from the legislation collection, or modified in a year before
// the newest amendment affecting them. A document modified earlier in
// the same year may predate the amendment, so it counts as stale too;
// re-scraping it is idempotent.
func (o *Oracle) StaleDocuments(ctx context.Context, amendments []domain.Amendment, asOf time.Time) ([]StaleDocument, error) {
	byURL := maxAffectingYears(amendments)
	if len(byURL) == 0 {
		return nil, nil
	}

	urls := make([]string, 0, len(byURL))
	pointIDs := make([]string, 0, len(byURL))
	for url := range byURL {
		urls = append(urls, url)
		pointIDs = append(pointIDs, domain.PointID(url))
	}

	existing, err := o.store.Retrieve(ctx, domain.KindLegislation, pointIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up changed documents: %w", err)
	}
	modifiedByID := make(map[string]time.Time, len(existing))
	for _, p := range existing {
		modifiedByID[p.ID] = modifiedDate(p.Payload)
	}

	var stale []StaleDocument
	for i, url := range urls {
		maxYear := byURL[url]
		modified, exists := modifiedByID[pointIDs[i]]
		switch {
		case !exists:
			stale = append(stale, StaleDocument{ChangedURL: url, MaxAffectingYear: maxYear, Missing: true})
		case isStale(modified, maxYear, asOf):
			stale = append(stale, StaleDocument{ChangedURL: url, MaxAffectingYear: maxYear})
		}
	}

	o.logger.Info("staleness report",
		"changed_documents", len(byURL),
		"stale", len(stale))
	return stale, nil
}

func isStale(modified time.Time, maxAffectingYear int, asOf time.Time) bool {
	if modified.IsZero() {
		return true
	}
	if modified.Year() < maxAffectingYear {
		return true
	}
	// Same-year tie-break on the full date.
	return modified.Year() == maxAffectingYear && modified.Before(asOf.Truncate(24*time.Hour))
}

func modifiedDate(payload map[string]any) time.Time {
	raw, ok := payload["modified_date"].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CountAll returns per-kind point counts for run reporting.
func (o *Oracle) CountAll(ctx context.Context) (map[domain.Kind]uint64, error) {
	counts := make(map[domain.Kind]uint64, len(domain.AllKinds()))
	for _, kind := range domain.AllKinds() {
		n, err := o.store.Count(ctx, kind, nil)
		if err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, nil
}

// AmendmentsSince lists amendments whose affecting year is within the
// window, straight from the amendments collection.
func (o *Oracle) AmendmentsSince(ctx context.Context, fromYear int) ([]domain.Amendment, error) {
	filter := &qdrant.Filter{Must: []*qdrant.Condition{
		qdrant.NewRange("affecting_year", &qdrant.Range{Gte: qdrant.PtrOf(float64(fromYear))}),
	}}

	var out []domain.Amendment
	const page = 512
	for offset := uint64(0); ; offset += page {
		points, err := o.store.QueryFilter(ctx, domain.KindAmendment, filter, page, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list amendments: %w", err)
		}
		for _, p := range points {
			a := domain.AmendmentFromPayload(p.Payload)
			if a.ChangedURL == "" {
				o.logger.Warn("skipping amendment with no changed URL", "id", p.ID)
				continue
			}
			out = append(out, a)
		}
		if len(points) < page {
			return out, nil
		}
	}
}
