package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"JournalHarvester/internal/app"
	"JournalHarvester/internal/usecase"
)

var scrapeOpts struct {
	site         string
	years        []int
	from         string
	dryRun       bool
	skipExisting bool
}

func init() {
	f := scrapeCmd.Flags()
	f.StringVar(&scrapeOpts.site, "site", "ncomms", "configured site to harvest")
	f.IntSliceVar(&scrapeOpts.years, "year", nil, "years to harvest (defaults to the site pagination years)")
	f.StringVar(&scrapeOpts.from, "from", "", "starting coordinate, year:page or year:volume:page")
	f.BoolVar(&scrapeOpts.dryRun, "dry-run", false, "fetch and extract without writing checkpoints")
	f.BoolVar(&scrapeOpts.skipExisting, "skip-existing", false, "skip coordinates whose checkpoint already exists")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--site <name>] [--year <y>...] [--from <coordinate>]",
	Short: "Walks the listing pages of a site and writes one checkpoint per coordinate.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.Application) error {
			harvester, site, err := a.Harvester(scrapeOpts.site)
			if err != nil {
				return err
			}
			plan, err := app.Plan(site, scrapeOpts.years, scrapeOpts.from)
			if err != nil {
				return err
			}

			summary, err := harvester.Run(cmd.Context(), usecase.HarvestRequest{
				Plan:         plan,
				DryRun:       scrapeOpts.dryRun,
				SkipExisting: scrapeOpts.skipExisting,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d coordinates, %d records, %d items skipped, %d listings unavailable, %d resumed\n",
				site.Name, summary.Coordinates, summary.Records, summary.Skipped, summary.Failed, summary.Resumed)
			return nil
		})
	},
}
