package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"job-matcher/internal/app"
	"job-matcher/internal/repository"

	"github.com/spf13/cobra"
)

type matchOptions struct {
	resumeID int64
	topK     int
	dryRun   bool
}

func newMatchCmd(opts *rootOptions) *cobra.Command {
	mo := &matchOptions{}
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score a resume against the whole job catalog and print the best matches",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			if mo.resumeID <= 0 {
				return errors.New("--resume-id must be a positive id")
			}
			if mo.topK < 0 {
				return errors.New("--top must not be negative")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd.Context(), opts, func(ctx context.Context, c *app.Container) error {
				if mo.topK > 0 {
					c.Config.Matcher.TopK = mo.topK
				}
				var store repository.MatchRepository
				if mo.dryRun {
					store = repository.NewMemoryMatchRepository()
				}

				m, err := c.NewMatching(ctx, store)
				if err != nil {
					return err
				}
				ranked, err := m.Match(ctx, mo.resumeID)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "RANK\tJOB ID\tSCORE\tTITLE")
				for i, r := range ranked {
					fmt.Fprintf(w, "%d\t%d\t%.3f\t%s\n", i+1, r.JobID, r.Score, r.Title)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().Int64VarP(&mo.resumeID, "resume-id", "r", 0, "resume to match")
	cmd.Flags().IntVarP(&mo.topK, "top", "k", 0, "number of matches to print (default MATCHER_TOP_K)")
	cmd.Flags().BoolVar(&mo.dryRun, "dry-run", false, "score without storing the matches")
	return cmd
}
