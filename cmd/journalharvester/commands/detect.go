package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"JournalHarvester/internal/app"
	"JournalHarvester/internal/usecase"
)

var detectOpts struct {
	site  string
	years []int
}

func init() {
	f := detectCmd.Flags()
	f.StringVar(&detectOpts.site, "site", "ncomms", "configured site whose checkpoints are checked")
	f.IntSliceVar(&detectOpts.years, "year", nil, "years to check (defaults to the site pagination years)")
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect [--site <name>] [--year <y>...]",
	Short: "Sends harvested article text to the AI-detection endpoint.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.Application) error {
			site, err := a.Config().Site(detectOpts.site)
			if err != nil {
				return err
			}
			pass, err := a.DetectionPass(site.Name)
			if err != nil {
				return err
			}

			years := detectOpts.years
			if len(years) == 0 {
				years = site.Pagination.Years
			}
			summary, err := pass.Run(cmd.Context(), usecase.DetectRequest{Site: site.Name, Years: years})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d checkpoints, %d verdicts, %d skipped\n",
				site.Name, summary.Coordinates, summary.Scored, summary.Skipped)
			return nil
		})
	},
}
