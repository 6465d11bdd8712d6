package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"ekko/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently fetched episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ledg, err := ledger.Open(cfg.Paths.LedgerPath)
			if err != nil {
				return err
			}
			defer ledg.Close()

			entries, err := ledg.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No fetches recorded yet")
				return nil
			}

			rows := make([]table.Row, 0, len(entries))
			for _, entry := range entries {
				source := string(entry.Source)
				if source == "" {
					source = "-"
				}
				rows = append(rows, table.Row{
					entry.PodcastName,
					entry.EpisodeTitle,
					source,
					fmt.Sprintf("%.2f", entry.QualityScore),
					entry.UpdatedAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(table.Row{"Podcast", "Episode", "Source", "Quality", "Updated"}, rows, 4))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	return cmd
}
