package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kl63/VerseVisions/internal/config"
	"github.com/kl63/VerseVisions/internal/logging"
	"github.com/kl63/VerseVisions/internal/services"
)

var commandContext = exec.CommandContext

// Assembler builds a slideshow video from cover images and the generated
// audio track using ffmpeg's concat demuxer.
type Assembler struct {
	cfg    config.Video
	logger *slog.Logger
}

// NewAssembler constructs an assembler from the Video configuration section.
func NewAssembler(cfg config.Video, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assembler{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "video"),
	}
}

// Enabled reports whether the stage should run.
func (a *Assembler) Enabled() bool {
	return a.cfg.Enabled
}

// Assemble renders a video at outputPath from the images and audio track.
// Both inputs are hard requirements; the caller skips this stage when either
// is missing rather than calling and failing.
func (a *Assembler) Assemble(ctx context.Context, audioPath string, imagePaths []string, outputPath string) (string, error) {
	if audioPath == "" {
		return "", services.Wrap(services.ErrValidation, "video", "validate", "audio path must not be empty", nil)
	}
	if len(imagePaths) == 0 {
		return "", services.Wrap(services.ErrValidation, "video", "validate", "at least one image required", nil)
	}

	listPath, err := a.writeConcatList(imagePaths)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "video", "prepare", "write concat list", err)
	}
	if !a.cfg.KeepIntermediate {
		defer os.Remove(listPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, "video", "prepare", "create output directory", err)
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-i", audioPath,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		outputPath,
	}
	cmd := commandContext(ctx, a.cfg.FFmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", services.Wrap(services.ErrTransient, "video", "assemble",
			fmt.Sprintf("ffmpeg: %s", strings.TrimSpace(string(output))), err)
	}

	a.logger.Info("video assembled",
		logging.String("output", outputPath),
		logging.Int("images", len(imagePaths)),
	)
	return outputPath, nil
}

// writeConcatList emits the concat demuxer input: each image held for the
// configured duration, with the final image repeated so the demuxer applies
// the last duration directive.
func (a *Assembler) writeConcatList(imagePaths []string) (string, error) {
	seconds := a.cfg.SecondsPerImage
	if seconds <= 0 {
		seconds = 5
	}

	var b strings.Builder
	for _, path := range imagePaths {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(path))
		fmt.Fprintf(&b, "duration %d\n", seconds)
	}
	fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(imagePaths[len(imagePaths)-1]))

	file, err := os.CreateTemp("", "versevisions-concat-*.txt")
	if err != nil {
		return "", err
	}
	if _, err := file.WriteString(b.String()); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}
