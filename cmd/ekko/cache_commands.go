package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"ekko/internal/cache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Transcript cache utilities",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func (c *commandContext) openStore() (*cache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return nil, fmt.Errorf("transcript cache is disabled in configuration")
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	store := cache.NewStore(cfg.Paths.CacheDir, cfg.CacheBudgetBytes(), logger)
	if store == nil {
		return nil, fmt.Errorf("transcript cache is misconfigured (dir %q, max %d MB)", cfg.Paths.CacheDir, cfg.Cache.MaxSizeMB)
	}
	return store, nil
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries:   %d\n", stats.Entries)
			fmt.Fprintf(out, "Size:      %s of %s\n", formatBytes(stats.TotalBytes), formatBytes(stats.MaxBytes))
			fmt.Fprintf(out, "Disk free: %.0f%%\n", stats.FreeRatio*100)
			if len(stats.EntryList) == 0 {
				return nil
			}

			rows := make([]table.Row, 0, len(stats.EntryList))
			for _, entry := range stats.EntryList {
				rows = append(rows, table.Row{
					entry.Key,
					formatBytes(entry.SizeBytes),
					entry.ModifiedAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(table.Row{"Key", "Size", "Modified"}, rows, 2))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached transcripts (%s)\n",
				stats.Entries, formatBytes(stats.TotalBytes))
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
