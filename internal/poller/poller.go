package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kl63/VerseVisions/internal/logging"
	"github.com/kl63/VerseVisions/internal/services"
	"github.com/kl63/VerseVisions/internal/suno"
)

const (
	defaultInterval  = 10 * time.Second
	defaultMaxChecks = 30
)

// StatusChecker performs a single status observation for a task.
// *suno.Client satisfies it.
type StatusChecker interface {
	CheckStatus(ctx context.Context, taskID string) (*suno.StatusSnapshot, error)
}

// Outcome is the terminal state of a poll run.
type Outcome int

const (
	// OutcomeSucceeded means a success-class status arrived with an audio
	// URL actually attached.
	OutcomeSucceeded Outcome = iota
	// OutcomeFailed means the task resolved to an explicit failure state or
	// a fatal API code. The task handle is dead.
	OutcomeFailed
	// OutcomeExhausted means the attempt budget ran out while the task was
	// still working. The task handle stays valid for a later check.
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Result reports how a poll run ended. Last holds the final observation, if
// any check got a decodable response, so failure detail survives for display.
type Result struct {
	Outcome  Outcome
	AudioURL string
	Attempts int
	Last     *suno.StatusSnapshot
}

// Poller drives repeated status checks for one task at a fixed interval up
// to a bounded count. Instances share nothing; run one per task.
type Poller struct {
	checker   StatusChecker
	logger    *slog.Logger
	interval  time.Duration
	maxChecks int
	sleeper   func(time.Duration)
}

// Option customizes the poller.
type Option func(*Poller)

// WithInterval overrides the delay between checks.
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithMaxChecks overrides the attempt budget.
func WithMaxChecks(max int) Option {
	return func(p *Poller) {
		if max > 0 {
			p.maxChecks = max
		}
	}
}

// WithSleeper overrides how the inter-tick sleep is performed (for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(p *Poller) {
		p.sleeper = sleeper
	}
}

// New constructs a poller around a status checker.
func New(checker StatusChecker, logger *slog.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Poller{
		checker:   checker,
		logger:    logging.NewComponentLogger(logger, "poller"),
		interval:  defaultInterval,
		maxChecks: defaultMaxChecks,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll checks the task until it succeeds, fails, or the budget runs out.
// Failed and exhausted runs return both a Result and a classified error so
// callers can branch with errors.Is while keeping the final observation.
// Cancellation is honored at tick boundaries and returns the context error.
func (p *Poller) Poll(ctx context.Context, taskID string) (*Result, error) {
	if taskID == "" {
		return nil, services.Wrap(services.ErrValidation, "poll", "validate", "task id must not be empty", nil)
	}

	result := &Result{}
	notifiedPartial := false
	for attempt := 1; attempt <= p.maxChecks; attempt++ {
		if attempt > 1 {
			if err := p.sleep(ctx); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Attempts = attempt

		snapshot, err := p.checker.CheckStatus(ctx, taskID)
		if snapshot != nil {
			result.Last = snapshot
		}
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, services.ErrTaskFailed):
			result.Outcome = OutcomeFailed
			return result, err
		case errors.Is(err, services.ErrTransient):
			p.logger.Warn("status check failed, will retry",
				logging.String(logging.FieldTaskID, taskID),
				logging.Int("attempt", attempt),
				logging.Error(err),
			)
			continue
		default:
			return nil, err
		}

		p.logger.Info("status observed",
			logging.String(logging.FieldTaskID, taskID),
			logging.Int("attempt", attempt),
			logging.String("status", snapshot.State.String()),
			logging.String("raw_status", snapshot.RawStatus),
		)

		switch {
		case snapshot.State.Failed():
			result.Outcome = OutcomeFailed
			return result, services.Wrap(services.ErrTaskFailed, "poll", "status",
				fmt.Sprintf("task resolved to %s (%s)", snapshot.State, suno.Describe(snapshot.RawStatus)), nil)
		case snapshot.State.SuccessLike():
			if snapshot.AudioURL != "" {
				result.Outcome = OutcomeSucceeded
				result.AudioURL = snapshot.AudioURL
				return result, nil
			}
			// Success-class status without an artifact: the payload may not
			// carry the URL yet, so keep polling.
			if snapshot.State == suno.LifecyclePartial && !notifiedPartial {
				notifiedPartial = true
				p.logger.Info("first track ready, waiting for the rest",
					logging.String(logging.FieldTaskID, taskID),
				)
			}
		default:
			// Pending, intermediate, and unknown statuses all mean "still
			// working". Unknown fails open to tolerate vocabulary drift.
		}
	}

	result.Outcome = OutcomeExhausted
	return result, services.Wrap(services.ErrExhausted, "poll", "budget",
		fmt.Sprintf("task still pending after %d checks", p.maxChecks), nil)
}

func (p *Poller) sleep(ctx context.Context) error {
	if p.sleeper != nil {
		p.sleeper(p.interval)
		return ctx.Err()
	}
	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
