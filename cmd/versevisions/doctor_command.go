package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kl63/VerseVisions/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external binaries and API credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			healthy := true

			binaries := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(binaries))
			for _, status := range binaries {
				rows = append(rows, []string{
					status.Name,
					yesNo(status.Available),
					yesNo(status.Optional),
					status.Detail,
				})
				if !status.Available && !status.Optional {
					healthy = false
				}
			}
			fmt.Fprintln(out, "Binaries:")
			fmt.Fprintln(out, renderTable([]string{"Name", "Available", "Optional", "Detail"}, rows))

			credentials := deps.CheckCredentials(cfg)
			rows = rows[:0]
			for _, status := range credentials {
				rows = append(rows, []string{
					status.Name,
					yesNo(status.Available),
					yesNo(status.Optional),
					status.Detail,
				})
				if !status.Available && !status.Optional {
					healthy = false
				}
			}
			fmt.Fprintln(out, "Credentials:")
			fmt.Fprintln(out, renderTable([]string{"Name", "Available", "Optional", "Detail"}, rows))

			if !healthy {
				return fmt.Errorf("required dependencies are missing")
			}
			fmt.Fprintln(out, "All required dependencies are available")
			return nil
		},
	}
}
