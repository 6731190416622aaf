package search

import (
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"lexingest/internal/domain"
)

// buildFilter translates request options into a qdrant filter. A request
// with no filterable options yields nil, which the store treats as
// unfiltered.
func buildFilter(opts Options) *qdrant.Filter {
	var must []*qdrant.Condition

	if len(opts.Courts) > 0 {
		must = append(must, qdrant.NewMatchKeywords("court", courtStrings(opts.Courts)...))
	}
	if len(opts.Divisions) > 0 {
		keywords := make([]string, len(opts.Divisions))
		for i, d := range opts.Divisions {
			keywords[i] = string(d)
		}
		must = append(must, qdrant.NewMatchKeywords("division", keywords...))
	}
	if len(opts.LegislationTypes) > 0 {
		keywords := make([]string, len(opts.LegislationTypes))
		for i, t := range opts.LegislationTypes {
			keywords[i] = string(t)
		}
		must = append(must, qdrant.NewMatchKeywords("legislation_type", keywords...))
	}
	if opts.YearFrom > 0 || opts.YearTo > 0 {
		r := &qdrant.Range{}
		if opts.YearFrom > 0 {
			r.Gte = qdrant.PtrOf(float64(opts.YearFrom))
		}
		if opts.YearTo > 0 {
			r.Lte = qdrant.PtrOf(float64(opts.YearTo))
		}
		must = append(must, qdrant.NewRange("year", r))
	}
	if opts.LegislationID != "" {
		must = append(must, qdrant.NewMatch("legislation_id", opts.LegislationID))
	}
	if opts.ReferenceID != "" {
		must = append(must, qdrant.NewMatch(referenceField(opts.ReferenceID), opts.ReferenceID))
	}

	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

// referenceField picks which reference array a cited identifier lives
// in, by the identifier's host.
func referenceField(id string) string {
	if strings.Contains(id, "legislation.gov.uk") {
		return "legislation_references"
	}
	return "caselaw_references"
}

func courtStrings(courts []domain.Court) []string {
	out := make([]string, len(courts))
	for i, c := range courts {
		out[i] = string(c)
	}
	return out
}
