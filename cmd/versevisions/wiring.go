package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kl63/VerseVisions/internal/config"
	"github.com/kl63/VerseVisions/internal/download"
	"github.com/kl63/VerseVisions/internal/images"
	"github.com/kl63/VerseVisions/internal/lyrics"
	"github.com/kl63/VerseVisions/internal/pipeline"
	"github.com/kl63/VerseVisions/internal/poller"
	"github.com/kl63/VerseVisions/internal/resume"
	"github.com/kl63/VerseVisions/internal/suno"
	"github.com/kl63/VerseVisions/internal/taskstore"
	"github.com/kl63/VerseVisions/internal/video"
)

// buildPipeline assembles the full stage graph from configuration. The
// returned store backs the pipeline's run history and must be closed by the
// caller once the pipeline is done.
func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, *taskstore.Store, error) {
	store, err := taskstore.Open(cfg.TaskDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open task history: %w", err)
	}

	musicClient := suno.NewClient(cfg.Suno, logger)
	taskPoller := poller.New(musicClient, logger,
		poller.WithInterval(time.Duration(cfg.Poll.IntervalSeconds)*time.Second),
		poller.WithMaxChecks(cfg.Poll.MaxChecks),
	)
	fetcher := download.New(logger,
		download.WithChunkBytes(cfg.Download.ChunkBytes),
		download.WithMaxRetries(cfg.Download.MaxRetries),
	)

	deps := pipeline.Deps{
		Lyrics:  lyrics.NewClient(cfg.Lyrics, logger),
		Music:   musicClient,
		Poller:  taskPoller,
		Fetcher: fetcher,
		Images:  images.NewGenerator(cfg.Images, fetcher, logger),
		Video:   video.NewAssembler(cfg.Video, logger),
		Resume:  resume.NewStore(cfg.ResumeFilePath(), logger),
		History: store,
	}

	p, err := pipeline.New(cfg, deps, logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return p, store, nil
}

// applyPollFlags lets a single invocation tighten or extend the poll
// schedule without editing the config file.
func applyPollFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("interval") {
		if v, err := cmd.Flags().GetInt("interval"); err == nil && v > 0 {
			cfg.Poll.IntervalSeconds = v
		}
	}
	if cmd.Flags().Changed("checks") {
		if v, err := cmd.Flags().GetInt("checks"); err == nil && v > 0 {
			cfg.Poll.MaxChecks = v
		}
	}
}
