package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kl63/VerseVisions/internal/config"
	"github.com/kl63/VerseVisions/internal/logging"
	"github.com/kl63/VerseVisions/internal/lyrics"
	"github.com/kl63/VerseVisions/internal/poller"
	"github.com/kl63/VerseVisions/internal/services"
	"github.com/kl63/VerseVisions/internal/suno"
	"github.com/kl63/VerseVisions/internal/taskstore"
	"github.com/kl63/VerseVisions/internal/textutil"
)

// LyricsGenerator writes lyrics for a theme. *lyrics.Client satisfies it.
type LyricsGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, request lyrics.Request) (*lyrics.Result, error)
}

// MusicClient submits generation tasks. *suno.Client satisfies it.
type MusicClient interface {
	Submit(ctx context.Context, request suno.SubmitRequest) (string, error)
}

// TaskPoller checks a task until it reaches a terminal outcome.
// *poller.Poller satisfies it.
type TaskPoller interface {
	Poll(ctx context.Context, taskID string) (*poller.Result, error)
}

// Fetcher downloads artifacts. *download.Downloader satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url, outputPath string) error
}

// ImageGenerator renders cover images. *images.Generator satisfies it.
type ImageGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, prompt, outputDir, baseName string) ([]string, error)
}

// VideoAssembler builds the slideshow video. *video.Assembler satisfies it.
type VideoAssembler interface {
	Enabled() bool
	Assemble(ctx context.Context, audioPath string, imagePaths []string, outputPath string) (string, error)
}

// ResumeStore persists the latest task handle. *resume.Store satisfies it.
type ResumeStore interface {
	Save(taskID string) error
	Load() (string, bool, error)
}

// HistoryStore records run history. *taskstore.Store satisfies it.
type HistoryStore interface {
	NewRun(ctx context.Context, taskID, theme, title, style, model string) (*taskstore.Run, error)
	UpdateStatus(ctx context.Context, runID string, status taskstore.Status, errorMessage string) error
	SetArtifacts(ctx context.Context, runID, audioFile, videoFile string) error
	GetByTaskID(ctx context.Context, taskID string) (*taskstore.Run, error)
	Latest(ctx context.Context) (*taskstore.Run, error)
}

// Deps bundles the collaborators a pipeline needs.
type Deps struct {
	Lyrics  LyricsGenerator
	Music   MusicClient
	Poller  TaskPoller
	Fetcher Fetcher
	Images  ImageGenerator
	Video   VideoAssembler
	Resume  ResumeStore
	History HistoryStore
}

// Request describes one pipeline run.
type Request struct {
	Theme        string
	Style        string
	Verses       int
	Chorus       bool
	Instrumental bool
	Model        string
	OutputDir    string
}

// Outcome collects everything a run produced. Partial outcomes are normal:
// a failed music stage still returns the lyrics that were written.
type Outcome struct {
	RunID      string
	TaskID     string
	Title      string
	Lyrics     *lyrics.Result
	AudioPath  string
	ImagePaths []string
	VideoPath  string
}

// Pipeline sequences the generation stages: lyrics, music submission,
// polling, artifact download, then optional images and video.
type Pipeline struct {
	cfg    *config.Config
	deps   Deps
	logger *slog.Logger
}

// New constructs a pipeline. Music, Poller, Fetcher, and Resume are
// required; the other collaborators may be nil when their stage is disabled.
func New(cfg *config.Config, deps Deps, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pipeline requires configuration")
	}
	if deps.Music == nil || deps.Poller == nil || deps.Fetcher == nil || deps.Resume == nil {
		return nil, fmt.Errorf("pipeline requires music client, poller, fetcher, and resume store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:    cfg,
		deps:   deps,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// Run executes the full pipeline for one song. The task handle is persisted
// immediately after submission, before polling starts, so a crash mid-poll
// can be resumed with the check command.
func (p *Pipeline) Run(ctx context.Context, request Request) (*Outcome, error) {
	theme := strings.TrimSpace(request.Theme)
	if theme == "" {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "validate", "theme must not be empty", nil)
	}
	outputDir := request.OutputDir
	if outputDir == "" {
		outputDir = p.cfg.Paths.OutputDir
	}
	model := request.Model
	if model == "" {
		model = p.cfg.Suno.Model
	}
	ctx = services.WithRequestID(ctx, uuid.NewString())

	outcome := &Outcome{}

	// Lyrics are best effort: a failure falls back to the raw theme so the
	// music stage still runs.
	prompt := theme
	title := lyrics.FallbackTitle(theme)
	if p.deps.Lyrics != nil && p.deps.Lyrics.Enabled() && !request.Instrumental {
		result, err := p.deps.Lyrics.Generate(services.WithStage(ctx, "lyrics"), lyrics.Request{
			Theme:  theme,
			Style:  request.Style,
			Verses: request.Verses,
			Chorus: request.Chorus,
		})
		if err != nil {
			if ctx.Err() != nil {
				return outcome, ctx.Err()
			}
			p.logger.Warn("lyrics stage failed, using theme as prompt", logging.Error(err))
		} else {
			outcome.Lyrics = result
			prompt = result.Body
			if prompt == "" {
				prompt = theme
			}
			if result.Title != "" {
				title = result.Title
			}
		}
	}
	outcome.Title = title

	taskID, err := p.deps.Music.Submit(services.WithStage(ctx, "music"), suno.SubmitRequest{
		Prompt:       prompt,
		Style:        request.Style,
		Title:        title,
		CustomMode:   p.cfg.Suno.CustomMode,
		Instrumental: request.Instrumental,
		Model:        model,
		CallBackURL:  p.cfg.Suno.CallbackURL,
	})
	if err != nil {
		return outcome, err
	}
	outcome.TaskID = taskID
	ctx = services.WithTaskID(ctx, taskID)
	log := logging.WithContext(ctx, p.logger)

	if err := p.deps.Resume.Save(taskID); err != nil {
		log.Warn("failed to persist resume handle", logging.Error(err))
	}
	runID := ""
	if p.deps.History != nil {
		if run, err := p.deps.History.NewRun(ctx, taskID, theme, title, request.Style, model); err != nil {
			log.Warn("failed to record run", logging.Error(err))
		} else {
			runID = run.ID
			outcome.RunID = runID
		}
	}

	pollResult, err := p.deps.Poller.Poll(services.WithStage(ctx, "poll"), taskID)
	if err != nil {
		p.recordStatus(ctx, runID, statusFor(pollResult), err)
		return outcome, err
	}

	audioPath := filepath.Join(outputDir, artifactBaseName(title)+".mp3")
	if err := p.deps.Fetcher.Fetch(services.WithStage(ctx, "download"), pollResult.AudioURL, audioPath); err != nil {
		p.recordStatus(ctx, runID, taskstore.StatusExhausted, err)
		return outcome, err
	}
	outcome.AudioPath = audioPath
	p.recordStatus(ctx, runID, taskstore.StatusSucceeded, nil)
	p.recordArtifacts(ctx, runID, audioPath, "")

	p.runOptionalStages(ctx, request, outcome, outputDir, runID)
	return outcome, nil
}

// runOptionalStages renders images and the video. Both are best effort and
// never fail an otherwise successful run.
func (p *Pipeline) runOptionalStages(ctx context.Context, request Request, outcome *Outcome, outputDir, runID string) {
	baseName := artifactBaseName(outcome.Title)

	if p.deps.Images != nil && p.deps.Images.Enabled() {
		imagePrompt := fmt.Sprintf("Album cover art for a song titled %q about %s", outcome.Title, request.Theme)
		if request.Style != "" {
			imagePrompt += fmt.Sprintf(", in %s style", request.Style)
		}
		paths, err := p.deps.Images.Generate(services.WithStage(ctx, "images"), imagePrompt, outputDir, baseName)
		if err != nil {
			p.logger.Warn("image stage failed, continuing without covers", logging.Error(err))
		} else {
			outcome.ImagePaths = paths
		}
	}

	if p.deps.Video != nil && p.deps.Video.Enabled() {
		if outcome.AudioPath == "" || len(outcome.ImagePaths) == 0 {
			p.logger.Info("video stage skipped, missing audio or images")
			return
		}
		videoPath := filepath.Join(outputDir, baseName+p.videoExtension())
		got, err := p.deps.Video.Assemble(services.WithStage(ctx, "video"), outcome.AudioPath, outcome.ImagePaths, videoPath)
		if err != nil {
			p.logger.Warn("video stage failed, keeping audio artifact", logging.Error(err))
			return
		}
		outcome.VideoPath = got
		p.recordArtifacts(ctx, runID, "", got)
	}
}

func (p *Pipeline) videoExtension() string {
	if ext := p.cfg.Video.OutputExtension; ext != "" {
		return ext
	}
	return ".mp4"
}

func (p *Pipeline) recordStatus(ctx context.Context, runID string, status taskstore.Status, cause error) {
	if p.deps.History == nil || runID == "" {
		return
	}
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	if err := p.deps.History.UpdateStatus(ctx, runID, status, message); err != nil {
		p.logger.Warn("failed to update run status", logging.Error(err))
	}
}

func (p *Pipeline) recordArtifacts(ctx context.Context, runID, audioPath, videoPath string) {
	if p.deps.History == nil || runID == "" {
		return
	}
	if err := p.deps.History.SetArtifacts(ctx, runID, audioPath, videoPath); err != nil {
		p.logger.Warn("failed to record artifacts", logging.Error(err))
	}
}

func statusFor(result *poller.Result) taskstore.Status {
	if result == nil {
		return taskstore.StatusExhausted
	}
	switch result.Outcome {
	case poller.OutcomeFailed:
		return taskstore.StatusFailed
	case poller.OutcomeSucceeded:
		return taskstore.StatusSucceeded
	default:
		return taskstore.StatusExhausted
	}
}

func artifactBaseName(title string) string {
	name := textutil.SanitizeFileName(title)
	if name == "" {
		return "untitled"
	}
	return name
}
