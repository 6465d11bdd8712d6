package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ekko/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := false
			for _, status := range deps.CheckBinaries(deps.ForConfig(cfg)) {
				marker := "ok"
				if !status.Available {
					if status.Optional {
						marker = "skip"
					} else {
						marker = "MISSING"
						failed = true
					}
				}
				fmt.Fprintf(out, "%-8s %s (%s)", marker, status.Name, status.Command)
				if status.Detail != "" {
					fmt.Fprintf(out, " - %s", status.Detail)
				}
				fmt.Fprintln(out)
			}
			if failed {
				return fmt.Errorf("required tools are missing")
			}
			return nil
		},
	}
}
