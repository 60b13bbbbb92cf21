package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kl63/VerseVisions/internal/taskstore"
)

func newTasksCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List recent generation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			store, err := taskstore.Open(cfg.TaskDBPath())
			if err != nil {
				return fmt.Errorf("open task history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					formatRunAge(run.CreatedAt),
					string(run.Status),
					run.Title,
					run.TaskID,
					artifactSummary(run),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Created", "Status", "Title", "Task ID", "Artifacts"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

func formatRunAge(createdAt time.Time) string {
	if createdAt.IsZero() {
		return "-"
	}
	return humanize.Time(createdAt)
}

func artifactSummary(run *taskstore.Run) string {
	switch {
	case run.VideoFile != "":
		return "audio+video"
	case run.AudioFile != "":
		return "audio"
	default:
		return "-"
	}
}
