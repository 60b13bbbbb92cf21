package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kl63/VerseVisions/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "check [task-id]",
		Short: "Check an earlier generation task and download its audio",
		Long: `Check polls an existing task until it finishes, then downloads the audio.
Without an argument it resumes the task saved by the most recent generate run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}
			applyPollFlags(cmd, cfg)

			taskID := ""
			if len(args) > 0 {
				taskID = strings.TrimSpace(args[0])
			}

			p, store, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			outcome, runErr := p.CheckExisting(signalCtx, taskID, outputDir)
			printOutcome(cmd, outcome)
			if runErr != nil {
				if services.Resumable(runErr) && outcome != nil && outcome.TaskID != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Task is still pending; run `versevisions check %s` again later\n", outcome.TaskID)
				}
				return runErr
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for downloaded artifacts")
	cmd.Flags().Int("interval", 0, "Seconds between status checks")
	cmd.Flags().Int("checks", 0, "Maximum number of status checks")

	return cmd
}
