package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"JournalHarvester/internal/app"
	"JournalHarvester/internal/usecase"
)

func init() {
	rootCmd.AddCommand(countsCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(statsCmd)
}

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Fetches the expected article count of every journal and year.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.Application) error {
			counts, path, err := a.Catalog().ExpectedCounts(cmd.Context(), a.Journals(), a.Config().Years.List())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d journal-years -> %s\n", len(counts), path)
			return nil
		})
	},
}

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Retrieves paper metadata of every journal and year.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.Application) error {
			records, path, err := a.Catalog().Metadata(cmd.Context(), a.Journals(), a.Config().Years.List())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d records -> %s\n", len(records), path)
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compares retrieved metadata with expected counts and summarizes readability.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.Application) error {
			stats, path, err := usecase.UpdateRetrievalStats(a.Corpus())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			t := newTable(out)
			t.AppendHeader(table.Row{"Journal", "Year", "Expected", "Retrieved", "Completion %"})
			for _, s := range stats {
				t.AppendRow(table.Row{s.Journal, s.Year, s.ExpectedCount, s.RetrievedCount, fmt.Sprintf("%.1f", s.CompletionRate)})
			}
			t.Render()
			fmt.Fprintf(out, "written %s\n", path)

			if !a.Corpus().CorpusExists(usecase.ReadabilityFile) {
				return nil
			}
			rows, err := usecase.ReadReadability(a.Corpus())
			if err != nil {
				return err
			}

			rt := newTable(out)
			rt.AppendHeader(table.Row{"Journal", "Articles", "FK mean", "FK sd", "Coleman mean", "Coleman sd"})
			for _, r := range usecase.SummarizeReadability(rows) {
				rt.AppendRow(table.Row{
					r.Journal, r.Articles,
					fmt.Sprintf("%.2f", r.MeanFK), fmt.Sprintf("%.2f", r.StdDevFK),
					fmt.Sprintf("%.2f", r.MeanColeman), fmt.Sprintf("%.2f", r.StdDevCL),
				})
			}
			rt.Render()
			return nil
		})
	},
}
