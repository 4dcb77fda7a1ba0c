package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-matcher/internal/app"
	"job-matcher/internal/scraper"

	"github.com/spf13/cobra"
)

type importOptions struct {
	target scraper.Target
	dryRun bool
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	o := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Scrape a job board and add its postings to the catalog",
		Example: `  matchctl import --list-url 'https://example.com/careers?page=%d' --pages 3 \
    --link-selector 'a.job-link' --body-selector '.job-description' --company Example`,
		Args: cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			if strings.TrimSpace(o.target.ListURL) == "" {
				return errors.New("--list-url is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd.Context(), opts, func(ctx context.Context, c *app.Container) error {
				imp := scraper.NewImporter(c.Config.Import, c.Logger.Named("importer"))
				jobs, err := imp.Scrape(ctx, o.target)
				if err != nil {
					return fmt.Errorf("scrape: %w", err)
				}

				if o.dryRun {
					for _, j := range jobs {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", j.Title, deref(j.SourceURL))
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d jobs found\n", len(jobs))
					return nil
				}

				saved, err := c.JobUsecase.SaveJobs(ctx, jobs)
				if err != nil {
					return fmt.Errorf("save jobs: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d jobs saved\n", saved, len(jobs))
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.target.ListURL, "list-url", "", "listing page url, may contain %d for the page number")
	f.IntVar(&o.target.Pages, "pages", 1, "number of listing pages to visit")
	f.StringVar(&o.target.LinkSelector, "link-selector", "a[href]", "CSS selector of job links on the listing page")
	f.StringVar(&o.target.TitleSelector, "title-selector", "h1", "CSS selector of the job title on the job page")
	f.StringVar(&o.target.LocationSelector, "location-selector", "", "CSS selector of the job location")
	f.StringVar(&o.target.CompanySelector, "company-selector", "", "CSS selector of the company name")
	f.StringVar(&o.target.BodySelector, "body-selector", "body", "CSS selector of the job description")
	f.StringVar(&o.target.Company, "company", "", "company name when the page does not show one")
	f.BoolVar(&o.dryRun, "dry-run", false, "print the scraped jobs without saving them")
	return cmd
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
