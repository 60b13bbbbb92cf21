package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/kl63/VerseVisions/internal/logging"
	"github.com/kl63/VerseVisions/internal/retry"
	"github.com/kl63/VerseVisions/internal/services"
)

const (
	defaultChunkBytes = 8192
	defaultTimeout    = 60 * time.Second
	defaultRetries    = 5
)

// ErrEmptyArtifact indicates the download completed but produced a zero-byte
// file. Treated as a transient failure: the upstream CDN occasionally serves
// empty bodies right after a task completes.
var ErrEmptyArtifact = errors.New("downloaded artifact is empty")

// Downloader fetches artifacts over HTTP with bounded retries.
type Downloader struct {
	client     *http.Client
	logger     *slog.Logger
	chunkBytes int
	maxRetries int
	baseDelay  time.Duration
	sleeper    func(time.Duration)
	progress   bool
}

// Option customizes the downloader.
type Option func(*Downloader)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) {
		if client != nil {
			d.client = client
		}
	}
}

// WithChunkBytes overrides the streaming chunk size.
func WithChunkBytes(size int) Option {
	return func(d *Downloader) {
		if size > 0 {
			d.chunkBytes = size
		}
	}
}

// WithMaxRetries overrides the retry budget.
func WithMaxRetries(attempts int) Option {
	return func(d *Downloader) {
		if attempts > 0 {
			d.maxRetries = attempts
		}
	}
}

// WithBaseDelay overrides the first backoff delay.
func WithBaseDelay(delay time.Duration) Option {
	return func(d *Downloader) {
		if delay > 0 {
			d.baseDelay = delay
		}
	}
}

// WithSleeper overrides how backoff sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(d *Downloader) {
		d.sleeper = sleeper
	}
}

// WithProgress forces the progress bar on or off. The default shows it only
// when stderr is a terminal.
func WithProgress(enabled bool) Option {
	return func(d *Downloader) {
		d.progress = enabled
	}
}

// New constructs a downloader. A nil logger is replaced with a no-op logger.
func New(logger *slog.Logger, opts ...Option) *Downloader {
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Downloader{
		client:     &http.Client{Timeout: defaultTimeout},
		logger:     logging.NewComponentLogger(logger, "download"),
		chunkBytes: defaultChunkBytes,
		maxRetries: defaultRetries,
		baseDelay:  time.Second,
		progress:   isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch downloads url to outputPath, retrying with doubling delays on any
// failure including a zero-byte result. A failure after the full budget is
// reported as budget exhaustion: the upstream task may still be fine, only
// the local copy attempt failed.
func (d *Downloader) Fetch(ctx context.Context, url, outputPath string) error {
	attempt := 0
	err := retry.Do(ctx, d.maxRetries, func(ctx context.Context) error {
		attempt++
		d.logger.Info("download attempt",
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", d.maxRetries),
			logging.String("url", url),
		)
		return d.fetchOnce(ctx, url, outputPath)
	},
		retry.WithBaseDelay(d.baseDelay),
		retry.WithSleeper(d.sleeper),
	)
	if err == nil {
		return nil
	}
	if errors.Is(err, retry.ErrAttemptsExhausted) {
		return services.Wrap(services.ErrExhausted, "download", "fetch",
			fmt.Sprintf("%d attempts", d.maxRetries), err)
	}
	return err
}

func (d *Downloader) fetchOnce(ctx context.Context, url, outputPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d", resp.StatusCode)
	}

	if resp.ContentLength > 0 {
		d.logger.Info("artifact size",
			logging.String("size", humanize.Bytes(uint64(resp.ContentLength))),
		)
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	var dest io.Writer = file
	if d.progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, "downloading")
		dest = io.MultiWriter(file, bar)
	}

	buf := make([]byte, d.chunkBytes)
	written, copyErr := io.CopyBuffer(dest, resp.Body, buf)
	closeErr := file.Close()
	if copyErr != nil {
		return fmt.Errorf("stream body: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close output file: %w", closeErr)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("stat artifact: %w", err)
	}
	if info.Size() == 0 {
		return ErrEmptyArtifact
	}

	d.logger.Info("download complete",
		logging.String("path", outputPath),
		logging.String("size", humanize.Bytes(uint64(written))),
	)
	return nil
}
