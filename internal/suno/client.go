package suno

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/kl63/VerseVisions/internal/config"
	"github.com/kl63/VerseVisions/internal/endpoint"
	"github.com/kl63/VerseVisions/internal/jsontree"
	"github.com/kl63/VerseVisions/internal/logging"
	"github.com/kl63/VerseVisions/internal/services"
)

// maxTitleRunes is the upstream limit on song titles. Longer titles are
// truncated before submission rather than rejected.
const maxTitleRunes = 80

// codeOK is the API-level success code carried in response bodies.
const codeOK = 200

// codeNotFound is returned while a freshly created task has not yet
// propagated to the status backend. It is the only API code treated as
// transient.
const codeNotFound = 404

var fatalCodeHints = map[int]string{
	401: "unauthorized, check the API key",
	413: "prompt or lyrics too long",
	429: "insufficient credits",
	455: "service under maintenance",
}

// SubmitRequest is the generation request sent to the service. Field names
// follow the upstream JSON contract.
type SubmitRequest struct {
	Prompt       string `json:"prompt"`
	Style        string `json:"style"`
	Title        string `json:"title"`
	CustomMode   bool   `json:"customMode"`
	Instrumental bool   `json:"instrumental"`
	Model        string `json:"model"`
	CallBackURL  string `json:"callBackUrl"`
}

// StatusSnapshot is one observation of a task, combining the raw response
// tree with everything extracted from it. RawStatus keeps the upstream
// string verbatim so unknown statuses stay diagnosable.
type StatusSnapshot struct {
	Raw       any
	UsedURL   string
	RawStatus string
	State     Lifecycle
	AudioURL  string
	Code      int
	Message   string
}

// Client talks to the song generation service. Status checks go through an
// endpoint resolver because the service has shipped the status route under
// several paths over time.
type Client struct {
	cfg      config.Suno
	resolver *endpoint.Resolver
	logger   *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithResolver overrides the endpoint resolver, primarily for tests.
func WithResolver(resolver *endpoint.Resolver) Option {
	return func(c *Client) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// NewClient constructs a client from the Suno configuration section.
func NewClient(cfg config.Suno, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "suno"),
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.resolver = endpoint.New(logger, endpoint.WithHTTPClient(&http.Client{Timeout: timeout}))
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Submit creates a generation task and returns its task handle. Titles over
// the upstream limit are truncated with a logged warning. The handle must be
// persisted by the caller before polling starts so an interrupted run can be
// resumed.
func (c *Client) Submit(ctx context.Context, request SubmitRequest) (string, error) {
	if request.Prompt == "" {
		return "", services.Wrap(services.ErrValidation, "submit", "validate", "prompt must not be empty", nil)
	}
	if runes := []rune(request.Title); len(runes) > maxTitleRunes {
		truncated := string(runes[:maxTitleRunes])
		c.logger.Warn("title exceeds limit, truncating",
			logging.Int("limit", maxTitleRunes),
			logging.String("title", truncated),
		)
		request.Title = truncated
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return "", services.Wrap(services.ErrSubmission, "submit", "encode", "marshal request", err)
	}

	response, err := c.resolver.Resolve(ctx, http.MethodPost, []string{c.cfg.BaseURL + "/generate"}, c.headers(), payload)
	if err != nil {
		if errors.Is(err, endpoint.ErrAllCandidatesFailed) {
			return "", services.Wrap(services.ErrSubmission, "submit", "request", "generate endpoint rejected the request", err)
		}
		return "", services.Wrap(services.ErrSubmission, "submit", "request", "generate request failed", err)
	}

	if code, message, ok := apiCode(response.Tree); ok && code != codeOK {
		return "", services.Wrap(services.ErrSubmission, "submit", "response", describeCode(code, message), nil)
	}

	taskID, ok := jsontree.ExtractString(response.Tree, jsontree.TaskID)
	if !ok {
		return "", services.Wrap(services.ErrSubmission, "submit", "response", "no task id under any known alias", nil)
	}

	c.logger.Info("task submitted",
		logging.String(logging.FieldTaskID, taskID),
		logging.String("model", request.Model),
	)
	return taskID, nil
}

// StatusCandidates returns the status URLs to try for a task, most likely
// first. The resolver walks them in order on every check.
func (c *Client) StatusCandidates(taskID string) []string {
	escaped := url.QueryEscape(taskID)
	return []string{
		c.cfg.BaseURL + "/generate/record-info?taskId=" + escaped,
		c.cfg.BaseURL + "/generate/status?taskId=" + escaped,
		c.cfg.BaseURL + "/generate/result?taskId=" + escaped,
		c.cfg.BaseURL + "/task/" + url.PathEscape(taskID),
		c.cfg.BaseURL + "/generate/" + url.PathEscape(taskID),
	}
}

// CheckStatus performs a single status observation. A pass where no
// candidate answers comes back as a transient error so the poller can spend
// another tick on it. A fatal API error code comes back as ErrTaskFailed
// with the upstream code and message preserved.
func (c *Client) CheckStatus(ctx context.Context, taskID string) (*StatusSnapshot, error) {
	if taskID == "" {
		return nil, services.Wrap(services.ErrValidation, "status", "validate", "task id must not be empty", nil)
	}

	response, err := c.resolver.Resolve(ctx, http.MethodGet, c.StatusCandidates(taskID), c.headers(), nil)
	if err != nil {
		if errors.Is(err, endpoint.ErrAllCandidatesFailed) {
			return nil, services.Wrap(services.ErrTransient, "status", "request", "no status endpoint answered", err)
		}
		return nil, err
	}

	snapshot := &StatusSnapshot{Raw: response.Tree, UsedURL: response.UsedURL}
	if code, message, ok := apiCode(response.Tree); ok {
		snapshot.Code = code
		snapshot.Message = message
		switch code {
		case codeOK, codeNotFound:
		default:
			return snapshot, services.Wrap(services.ErrTaskFailed, "status", "response", describeCode(code, message), nil)
		}
	}

	if raw, ok := jsontree.ExtractString(response.Tree, jsontree.Status); ok {
		snapshot.RawStatus = raw
		snapshot.State = Classify(raw)
	}
	if audioURL, ok := jsontree.ExtractString(response.Tree, jsontree.AudioURL); ok {
		snapshot.AudioURL = audioURL
	}
	return snapshot, nil
}

func (c *Client) headers() http.Header {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		headers.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	return headers
}

// apiCode reads the top-level error code and message from a response tree.
// Only the root object is consulted; nested trees embed per-track codes that
// must not be mistaken for the API-level one.
func apiCode(tree any) (int, string, bool) {
	root, ok := tree.(map[string]any)
	if !ok {
		return 0, "", false
	}
	value, ok := root["code"]
	if !ok {
		return 0, "", false
	}
	number, ok := value.(float64)
	if !ok {
		return 0, "", false
	}
	message := ""
	for _, alias := range []string{"msg", "message"} {
		if s, isStr := root[alias].(string); isStr && s != "" {
			message = s
			break
		}
	}
	return int(number), message, true
}

func describeCode(code int, message string) string {
	hint, known := fatalCodeHints[code]
	switch {
	case message != "" && known:
		return fmt.Sprintf("api code %d (%s): %s", code, hint, message)
	case message != "":
		return fmt.Sprintf("api code %d: %s", code, message)
	case known:
		return fmt.Sprintf("api code %d (%s)", code, hint)
	default:
		return fmt.Sprintf("api code %d", code)
	}
}
