package commands

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"JournalHarvester/internal/app"
)

func init() {
	rootCmd.AddCommand(ledgerCmd)
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Lists the checkpoint files recorded by previous runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.Application) error {
			ledger, err := a.Ledger()
			if err != nil {
				return err
			}
			entries, err := ledger.Entries(cmd.Context())
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Written", "Kind", "Site", "Coordinate", "Rows", "Path"})
			for _, e := range entries {
				t.AppendRow(table.Row{e.WrittenAt.Local().Format(time.DateTime), e.Kind, e.Site, e.Coordinate, e.Rows, e.Path})
			}
			t.Render()
			return nil
		})
	},
}
