package endpoint

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

	"github.com/kl63/VerseVisions/internal/logging"
)

// ErrAllCandidatesFailed indicates that no candidate URL produced an HTTP 200
// response. The wrapped error chain retains every per-candidate failure.
var ErrAllCandidatesFailed = errors.New("all candidate endpoints failed")

const defaultTimeout = 30 * time.Second

// Response carries the decoded body of a successful resolve plus the URL
// that produced it, for diagnosis and candidate-priority tuning.
type Response struct {
	Tree    any
	UsedURL string
}

// Resolver issues one request per candidate URL and stops at the first 200.
// Retrying a failed pass is the caller's responsibility; the resolver never
// retries on its own, so the poll interval stays the only pacing mechanism.
type Resolver struct {
	client *http.Client
	logger *slog.Logger
}

// Option customizes the resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.client = client
		}
	}
}

// New constructs a resolver. A nil logger is replaced with a no-op logger.
func New(logger *slog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Resolver{
		client: &http.Client{Timeout: defaultTimeout},
		logger: logging.NewComponentLogger(logger, "endpoint"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve tries each candidate in order and returns the decoded body of the
// first 200 response. Non-200 statuses, network errors, and undecodable
// bodies are logged and treated as "try the next candidate". When every
// candidate fails, the returned error wraps ErrAllCandidatesFailed together
// with each candidate's failure.
func (r *Resolver) Resolve(ctx context.Context, method string, candidates []string, headers http.Header, body []byte) (*Response, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates supplied", ErrAllCandidatesFailed)
	}

	failures := make([]error, 0, len(candidates))
	for _, candidate := range candidates {
		tree, err := r.attempt(ctx, method, candidate, headers, body)
		if err == nil {
			return &Response{Tree: tree, UsedURL: candidate}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Warn("candidate endpoint failed",
			logging.String("url", candidate),
			logging.Error(err),
		)
		failures = append(failures, fmt.Errorf("%s: %w", candidate, err))
	}

	return nil, fmt.Errorf("%w: %w", ErrAllCandidatesFailed, errors.Join(failures...))
}

func (r *Resolver) attempt(ctx context.Context, method, url string, headers http.Header, body []byte) (any, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, summarizeBody(payload))
	}

	var tree any
	if err := json.Unmarshal(payload, &tree); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return tree, nil
}

func summarizeBody(payload []byte) string {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return "<empty body>"
	}
	const limit = 160
	runes := []rune(trimmed)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return trimmed
}
