package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/kl63/VerseVisions/internal/config"
	"github.com/kl63/VerseVisions/internal/jsontree"
	"github.com/kl63/VerseVisions/internal/logging"
	"github.com/kl63/VerseVisions/internal/services"
)

const defaultHTTPTimeout = 120 * time.Second

// Fetcher downloads a remote artifact to a local path.
// *download.Downloader satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url, outputPath string) error
}

// Generator produces cover images for a song through an OpenAI-compatible
// image generation endpoint. One request is issued per image because the
// default model only renders a single image per call.
type Generator struct {
	cfg        config.Images
	httpClient *http.Client
	fetcher    Fetcher
	logger     *slog.Logger
}

// Option customizes the generator.
type Option func(*Generator)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Generator) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// NewGenerator constructs a generator from the Images configuration section.
func NewGenerator(cfg config.Images, fetcher Fetcher, logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	g := &Generator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		fetcher:    fetcher,
		logger:     logging.NewComponentLogger(logger, "images"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether the stage should run.
func (g *Generator) Enabled() bool {
	return g.cfg.Enabled && strings.TrimSpace(g.cfg.APIKey) != ""
}

// Generate renders up to the configured number of images for the prompt and
// downloads them into outputDir as baseName_N files. Individual image
// failures are logged and skipped; the stage fails only when nothing at all
// was produced.
func (g *Generator) Generate(ctx context.Context, prompt, outputDir, baseName string) ([]string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, services.Wrap(services.ErrValidation, "images", "validate", "prompt must not be empty", nil)
	}
	if !g.Enabled() {
		return nil, services.Wrap(services.ErrConfiguration, "images", "validate", "image generation not configured", nil)
	}

	count := g.cfg.Count
	if count <= 0 {
		count = 1
	}

	var paths []string
	for index := 0; index < count; index++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		url, err := g.generateOne(ctx, prompt)
		if err != nil {
			g.logger.Warn("image generation failed",
				logging.Int("index", index),
				logging.Error(err),
			)
			continue
		}
		outputPath := filepath.Join(outputDir, fmt.Sprintf("%s_%d%s", baseName, index+1, extensionFor(url)))
		if err := g.fetcher.Fetch(ctx, url, outputPath); err != nil {
			g.logger.Warn("image download failed",
				logging.Int("index", index),
				logging.String("url", url),
				logging.Error(err),
			)
			continue
		}
		paths = append(paths, outputPath)
	}

	if len(paths) == 0 {
		return nil, services.Wrap(services.ErrTransient, "images", "generate", "no images produced", nil)
	}
	g.logger.Info("images generated", logging.Int("count", len(paths)))
	return paths, nil
}

func (g *Generator) generateOne(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model":  g.cfg.Model,
		"prompt": prompt,
		"n":      1,
		"size":   g.cfg.Size,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tree any
	if err := json.Unmarshal(body, &tree); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	url, ok := jsontree.ExtractString(tree, jsontree.ImageURL)
	if !ok {
		return "", fmt.Errorf("no image url in response")
	}
	return url, nil
}

func extensionFor(url string) string {
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".webp"} {
		if strings.Contains(url, ext) {
			return ext
		}
	}
	return ".png"
}
