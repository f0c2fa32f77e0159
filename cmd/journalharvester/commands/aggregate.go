package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"JournalHarvester/internal/aggregate"
	"JournalHarvester/internal/app"
)

var aggregateOpts struct {
	years []int
	sort  bool
}

func init() {
	f := aggregateCmd.Flags()
	f.IntSliceVar(&aggregateOpts.years, "year", nil, "partitions to include (defaults to all)")
	f.BoolVar(&aggregateOpts.sort, "sort", true, "sort input files for deterministic output")
	rootCmd.AddCommand(aggregateCmd)
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [--year <y>...]",
	Short: "Concatenates per-coordinate scores and subjects into corpus files.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.Application) error {
			summaries, err := a.Aggregator().Aggregate(cmd.Context(), aggregate.Request{
				Root:  a.Config().Paths.Root,
				Years: aggregateOpts.years,
				Sort:  aggregateOpts.sort,
			})
			if err != nil {
				return err
			}
			for _, s := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d files, %d rows -> %s\n", s.Kind, s.Files, s.Rows, s.Output)
			}
			return nil
		})
	},
}
