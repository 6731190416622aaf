package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newCitationsCmd() *cobra.Command {
	var (
		limit  uint64
		offset uint64
	)

	cmd := &cobra.Command{
		Use:   "citations <document-id>",
		Short: "List judgments citing a document",
		Long: "Lists judgments whose references include the given document " +
			"identifier, either a judgment URI or a legislation URI.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.searcher.CitingJudgments(cmd.Context(), args[0], limit, offset)
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

	cmd.Flags().Uint64Var(&limit, "limit", 10, "max results")
	cmd.Flags().Uint64Var(&offset, "offset", 0, "pagination offset")
	return cmd
}
