package lyrics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kl63/VerseVisions/internal/config"
	"github.com/kl63/VerseVisions/internal/logging"
	"github.com/kl63/VerseVisions/internal/retry"
	"github.com/kl63/VerseVisions/internal/services"
)

const (
	anthropicVersion   = "2023-06-01"
	defaultHTTPTimeout = 60 * time.Second
	defaultAttempts    = 3

	systemPrompt = "You are a professional songwriter with expertise in many musical styles. " +
		"Create original, creative, and emotionally resonant lyrics that feel authentic to the requested style. " +
		"Structure the lyrics properly and ensure they have a cohesive theme."
)

// Request describes the song to write lyrics for. Zero Verses falls back to
// the configured default.
type Request struct {
	Theme  string
	Style  string
	Verses int
	Chorus bool
}

// Result is the parsed output: the first line becomes the title, the rest
// the body. FullText keeps the unparsed model output.
type Result struct {
	Title    string
	Body     string
	FullText string
}

// Client generates lyrics through an Anthropic-compatible messages endpoint.
type Client struct {
	cfg         config.Lyrics
	httpClient  *http.Client
	logger      *slog.Logger
	maxAttempts int
	retryOpts   []retry.Option
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMaxAttempts overrides the retry budget.
func WithMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// WithRetryOptions forwards options to the retry executor (for tests).
func WithRetryOptions(opts ...retry.Option) Option {
	return func(c *Client) {
		c.retryOpts = append(c.retryOpts, opts...)
	}
}

// NewClient constructs a lyrics client from the Lyrics configuration section.
func NewClient(cfg config.Lyrics, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logging.NewComponentLogger(logger, "lyrics"),
		maxAttempts: defaultAttempts,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Enabled reports whether the stage can run at all.
func (c *Client) Enabled() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// Generate writes lyrics for the request. Transient upstream failures are
// retried with backoff; client-side rejections are not.
func (c *Client) Generate(ctx context.Context, request Request) (*Result, error) {
	theme := strings.TrimSpace(request.Theme)
	if theme == "" {
		return nil, services.Wrap(services.ErrValidation, "lyrics", "validate", "theme must not be empty", nil)
	}
	if !c.Enabled() {
		return nil, services.Wrap(services.ErrConfiguration, "lyrics", "validate", "api key required", nil)
	}

	verses := request.Verses
	if verses <= 0 {
		verses = c.cfg.Verses
	}
	payload, err := json.Marshal(messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    systemPrompt,
		Messages: []message{
			{Role: "user", Content: userPrompt(theme, request.Style, verses, request.Chorus)},
		},
	})
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "lyrics", "encode", "marshal request", err)
	}

	var text string
	err = retry.Do(ctx, c.maxAttempts, func(ctx context.Context) error {
		var opErr error
		text, opErr = c.sendOnce(ctx, payload)
		return opErr
	}, c.retryOpts...)
	if err != nil {
		if errors.Is(err, retry.ErrAttemptsExhausted) {
			return nil, services.Wrap(services.ErrExhausted, "lyrics", "generate", "lyrics endpoint kept failing", err)
		}
		return nil, err
	}

	result := parse(text)
	if result.Title == "" {
		result.Title = FallbackTitle(theme)
	}
	c.logger.Info("lyrics generated",
		logging.String("title", result.Title),
		logging.Int("characters", len(result.Body)),
	)
	return result, nil
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) sendOnce(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("lyrics request: new request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lyrics request: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("lyrics request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("lyrics request: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if retryableStatus(resp.StatusCode) {
			return "", statusErr
		}
		return "", retry.Permanent(statusErr)
	}

	var decoded messagesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("lyrics request: decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", retry.Permanent(fmt.Errorf("lyrics request: api error: %s", decoded.Error.Message))
	}
	for _, block := range decoded.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("lyrics request: empty content")
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}

func userPrompt(theme, style string, verses int, chorus bool) string {
	var b strings.Builder
	if style = strings.TrimSpace(style); style != "" {
		fmt.Fprintf(&b, "Write in %s style. ", style)
	}
	fmt.Fprintf(&b, "Write lyrics for a song about: %s. Include %d verses", theme, verses)
	if chorus {
		b.WriteString(" and a chorus that repeats.")
	} else {
		b.WriteString(".")
	}
	b.WriteString(" Include a title at the top. Format the output so verses and chorus are clearly separated.")
	return b.String()
}

// parse splits the model output into title and body. The first non-empty
// line is the title, stripped of markdown heading and emphasis markers.
func parse(text string) *Result {
	result := &Result{FullText: text}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 {
		return result
	}
	title := strings.TrimSpace(lines[0])
	title = strings.Trim(title, "#*\" ")
	result.Title = strings.TrimSpace(title)
	if len(lines) > 1 {
		result.Body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}
	return result
}

var titleCaser = cases.Title(language.English)

// FallbackTitle derives a song title from the theme when no better title is
// available, such as when the lyrics stage is disabled or failed.
func FallbackTitle(theme string) string {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return "Untitled"
	}
	return titleCaser.String(theme)
}
