package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransient marks failures that are retryable rather than terminal:
	// network errors, a single non-200 candidate, an empty downloaded file,
	// an unrecognized status string.
	ErrTransient = errors.New("transient failure")
	// ErrSubmission marks failures that abort the pipeline before polling
	// starts: no endpoint accepted the submit request, or the response
	// carried no task handle under any known alias.
	ErrSubmission = errors.New("submission failed")
	// ErrTaskFailed marks an upstream task that resolved to an explicitly
	// failed lifecycle state or a fatal API error code.
	ErrTaskFailed = errors.New("task failed")
	// ErrExhausted marks a poll or retry budget that capped out while the
	// task was still pending. The resume token stays valid.
	ErrExhausted = errors.New("budget exhausted")
	// ErrConfiguration marks missing or invalid local configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation marks invalid caller input.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTerminal reports whether the error should stop the current stage for
// good. Transient errors and nil are not terminal.
func IsTerminal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrTransient)
}

// Resumable reports whether the caller may re-run the check later with the
// same task handle instead of abandoning the task.
func Resumable(err error) bool {
	return errors.Is(err, ErrExhausted)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
