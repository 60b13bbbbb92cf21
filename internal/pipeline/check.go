package pipeline

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kl63/VerseVisions/internal/logging"
	"github.com/kl63/VerseVisions/internal/services"
	"github.com/kl63/VerseVisions/internal/taskstore"
)

// CheckExisting resumes an earlier run: it polls the given task handle, or
// the saved one when taskID is empty, and downloads the artifact on success.
// The resume handle is left in place on exhaustion so the check can be
// repeated.
func (p *Pipeline) CheckExisting(ctx context.Context, taskID, outputDir string) (*Outcome, error) {
	if taskID == "" {
		saved, ok, err := p.deps.Resume.Load()
		if err != nil {
			return nil, err
		}
		if ok {
			taskID = saved
			p.logger.Info("checking saved task", logging.String(logging.FieldTaskID, taskID))
		} else if p.deps.History != nil {
			// The resume file is a single slot; the history keeps every
			// handle, so fall back to the newest recorded run.
			if run, err := p.deps.History.Latest(ctx); err == nil {
				taskID = run.TaskID
				p.logger.Info("checking latest recorded task", logging.String(logging.FieldTaskID, taskID))
			}
		}
		if taskID == "" {
			return nil, services.Wrap(services.ErrValidation, "check", "resume", "no task handle supplied and none saved", nil)
		}
	}
	if outputDir == "" {
		outputDir = p.cfg.Paths.OutputDir
	}

	ctx = services.WithRequestID(ctx, uuid.NewString())
	ctx = services.WithTaskID(ctx, taskID)

	outcome := &Outcome{TaskID: taskID}
	runID := ""
	title := "untitled"
	if p.deps.History != nil {
		if run, err := p.deps.History.GetByTaskID(ctx, taskID); err == nil {
			runID = run.ID
			outcome.RunID = runID
			if run.Title != "" {
				title = run.Title
			}
		}
	}
	outcome.Title = title

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
	return outcome, nil
}
