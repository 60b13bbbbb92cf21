package taskstore

import "time"

// Status tracks how far a pipeline run got.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusExhausted Status = "exhausted"
)

// Run is one pipeline run keyed by its own identifier rather than the task
// handle, so concurrent runs never clobber each other's history.
type Run struct {
	ID           string
	TaskID       string
	Theme        string
	Title        string
	Style        string
	Model        string
	Status       Status
	AudioFile    string
	VideoFile    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Terminal reports whether the run reached a final state.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusExhausted:
		return true
	}
	return false
}
