package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kl63/VerseVisions/internal/pipeline"
	"github.com/kl63/VerseVisions/internal/services"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var style string
	var verses int
	var chorus bool
	var instrumental bool
	var model string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "generate <theme>",
		Short: "Generate a song for a theme",
		Long: `Generate a song end to end: write lyrics for the theme, submit them for
music generation, poll until audio is ready, then download it. Cover images
and a slideshow video are rendered when those stages are enabled in the
configuration.

Examples:
  versevisions generate "rivers at midnight"
  versevisions generate "summer road trip" --style "indie folk" --verses 3
  versevisions generate "rain on tin roofs" --instrumental`,
		Args: cobra.MinimumNArgs(1),
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

			request := pipeline.Request{
				Theme:        strings.TrimSpace(strings.Join(args, " ")),
				Style:        style,
				Verses:       verses,
				Chorus:       chorus,
				Instrumental: instrumental,
				Model:        model,
				OutputDir:    outputDir,
			}
			if !cmd.Flags().Changed("verses") {
				request.Verses = cfg.Lyrics.Verses
			}
			if !cmd.Flags().Changed("chorus") {
				request.Chorus = cfg.Lyrics.Chorus
			}
			if !cmd.Flags().Changed("instrumental") {
				request.Instrumental = cfg.Suno.Instrumental
			}

			p, store, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			outcome, runErr := p.Run(signalCtx, request)
			printOutcome(cmd, outcome)
			if runErr != nil {
				if services.Resumable(runErr) && outcome != nil && outcome.TaskID != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Task is still pending; resume later with `versevisions check %s`\n", outcome.TaskID)
				}
				return runErr
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&style, "style", "s", "", "Musical style hint (e.g. \"indie folk\")")
	cmd.Flags().IntVar(&verses, "verses", 0, "Number of verses to write")
	cmd.Flags().BoolVar(&chorus, "chorus", false, "Include a repeating chorus")
	cmd.Flags().BoolVar(&instrumental, "instrumental", false, "Skip lyrics and generate instrumental audio")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Music generation model override")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for downloaded artifacts")
	cmd.Flags().Int("interval", 0, "Seconds between status checks")
	cmd.Flags().Int("checks", 0, "Maximum number of status checks")

	return cmd
}

func printOutcome(cmd *cobra.Command, outcome *pipeline.Outcome) {
	if outcome == nil {
		return
	}
	out := cmd.OutOrStdout()
	if outcome.Lyrics != nil && outcome.Lyrics.FullText != "" {
		fmt.Fprintln(out, outcome.Lyrics.FullText)
		fmt.Fprintln(out)
	}
	if outcome.Title != "" {
		fmt.Fprintf(out, "Title:  %s\n", outcome.Title)
	}
	if outcome.TaskID != "" {
		fmt.Fprintf(out, "Task:   %s\n", outcome.TaskID)
	}
	if outcome.AudioPath != "" {
		fmt.Fprintf(out, "Audio:  %s\n", outcome.AudioPath)
	}
	for _, path := range outcome.ImagePaths {
		fmt.Fprintf(out, "Image:  %s\n", path)
	}
	if outcome.VideoPath != "" {
		fmt.Fprintf(out, "Video:  %s\n", outcome.VideoPath)
	}
}
