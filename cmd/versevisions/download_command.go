package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kl63/VerseVisions/internal/download"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download an artifact URL directly",
		Long: `Download fetches a single artifact URL with the same chunked, retrying
downloader the pipeline uses. Useful when a status check printed an audio URL
but the automatic download failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			url := strings.TrimSpace(args[0])
			target := outputPath
			if target == "" {
				name := filepath.Base(strings.SplitN(url, "?", 2)[0])
				if name == "" || name == "." || name == "/" {
					name = "artifact.mp3"
				}
				target = filepath.Join(cfg.Paths.OutputDir, name)
			}

			fetcher := download.New(logger,
				download.WithChunkBytes(cfg.Download.ChunkBytes),
				download.WithMaxRetries(cfg.Download.MaxRetries),
			)

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := fetcher.Fetch(signalCtx, url, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file path")

	return cmd
}
