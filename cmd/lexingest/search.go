package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"lexingest/internal/domain"
	"lexingest/internal/search"
)

func newSearchCmd() *cobra.Command {
	var (
		kind          string
		semantic      bool
		courts        []string
		divisions     []string
		types         []string
		yearFrom      int
		yearTo        int
		legislationID string
		referenceID   string
		limit         uint64
		offset        uint64
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Query the corpus (hybrid, keyword or filter-only)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var query string
			if len(args) == 1 {
				query = args[0]
			}

			divs := make([]domain.Division, 0, len(divisions))
			for _, d := range divisions {
				divs = append(divs, domain.Division(d))
			}

			results, err := a.searcher.Search(cmd.Context(), search.Options{
				Query:            query,
				Semantic:         semantic,
				Kind:             domain.Kind(kind),
				Courts:           parseCourts(courts),
				Divisions:        divs,
				LegislationTypes: parseTypes(types),
				YearFrom:         yearFrom,
				YearTo:           yearTo,
				LegislationID:    legislationID,
				ReferenceID:      referenceID,
				Limit:            limit,
				Offset:           offset,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(domain.KindCaselaw), "collection to search")
	cmd.Flags().BoolVar(&semantic, "semantic", true, "hybrid dense+sparse search; false for keyword-only")
	cmd.Flags().StringSliceVar(&courts, "courts", nil, "filter by court codes")
	cmd.Flags().StringSliceVar(&divisions, "divisions", nil, "filter by division codes")
	cmd.Flags().StringSliceVar(&types, "types", nil, "filter by legislation type codes")
	cmd.Flags().IntVar(&yearFrom, "year-from", 0, "inclusive lower year bound")
	cmd.Flags().IntVar(&yearTo, "year-to", 0, "inclusive upper year bound")
	cmd.Flags().StringVar(&legislationID, "legislation-id", "", "restrict to one parent act")
	cmd.Flags().StringVar(&referenceID, "reference-id", "", "find judgments citing this identifier")
	cmd.Flags().Uint64Var(&limit, "limit", 10, "max results")
	cmd.Flags().Uint64Var(&offset, "offset", 0, "pagination offset")
	return cmd
}
