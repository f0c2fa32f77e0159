package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"JournalHarvester/internal/app"
	"JournalHarvester/internal/readability"
	"JournalHarvester/internal/usecase"
)

var scoreOpts struct {
	site       string
	years      []int
	minWords   int
	maxPerSite int
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreOpts.site, "site", "ncomms", "configured site whose checkpoints are scored")
	f.IntSliceVar(&scoreOpts.years, "year", nil, "years to score (defaults to the site pagination years)")
	f.IntVar(&scoreOpts.minWords, "min-words", 0, "skip articles with fewer words")
	f.IntVar(&scoreOpts.maxPerSite, "max", 0, "stop after this many scored articles per journal (0 = all)")
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(readabilityCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score [--site <name>] [--year <y>...]",
	Short: "Computes readability scores for every harvested article checkpoint.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.Application) error {
			site, err := a.Config().Site(scoreOpts.site)
			if err != nil {
				return err
			}
			scorer, err := a.Scorer(site.Name)
			if err != nil {
				return err
			}

			years := scoreOpts.years
			if len(years) == 0 {
				years = site.Pagination.Years
			}
			summary, err := scorer.ScoreCheckpoints(cmd.Context(), usecase.ScoreRequest{
				Site:     site.Name,
				Years:    years,
				MinWords: scoreOpts.minWords,
				Budget:   readability.NewBudget(scoreOpts.maxPerSite, nil),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d checkpoints, %d scored, %d skipped\n",
				site.Name, summary.Coordinates, summary.Scored, summary.Skipped)
			return nil
		})
	},
}

var readabilityCmd = &cobra.Command{
	Use:   "readability",
	Short: "Scores the landing pages of the retrieved metadata (meta_data.csv).",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.Application) error {
			records, err := usecase.ReadMetadata(a.Corpus())
			if err != nil {
				return fmt.Errorf("load metadata (run the metadata command first): %w", err)
			}
			scorer, err := a.Scorer("")
			if err != nil {
				return err
			}

			cfg := a.Config()
			rows, path, err := scorer.ScoreMetadata(cmd.Context(), usecase.ReadabilityRequest{
				Records:  records,
				Resolver: cfg.Scoring.DOIResolver,
				MinWords: cfg.Scoring.MinWords,
				Budget:   a.MetadataBudget(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d articles scored -> %s\n", len(rows), path)
			return nil
		})
	},
}
