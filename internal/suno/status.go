package suno

import (
	"fmt"
	"strings"
)

// Lifecycle is the normalized classification of an upstream raw status.
type Lifecycle int

const (
	// LifecycleUnknown covers raw statuses outside the known vocabulary.
	// Unknown is treated as "still working", never as a failure, so the
	// poller tolerates upstream vocabulary drift.
	LifecycleUnknown Lifecycle = iota
	// LifecyclePending means the task has not started producing output.
	LifecyclePending
	// LifecycleTextReady means lyrics/text generation finished upstream.
	LifecycleTextReady
	// LifecyclePartial means the first track is ready while the second is
	// still rendering. Its artifact may already be downloadable.
	LifecyclePartial
	// LifecycleSuccess means generation finished.
	LifecycleSuccess
	// LifecycleCreateFailed means the task was never created upstream.
	LifecycleCreateFailed
	// LifecycleGenerationFailed means audio rendering failed.
	LifecycleGenerationFailed
	// LifecycleCallbackException means the upstream callback mechanism
	// errored; the task itself is dead.
	LifecycleCallbackException
	// LifecycleContentRejected means the prompt hit the content filter.
	LifecycleContentRejected
)

// statusDescriptions maps the documented raw codes to operator-facing text.
var statusDescriptions = map[string]string{
	"PENDING":               "Pending execution",
	"TEXT_SUCCESS":          "Text generation successful",
	"FIRST_SUCCESS":         "First song generation successful",
	"SUCCESS":               "Generation successful",
	"CREATE_TASK_FAILED":    "Task creation failed",
	"GENERATE_AUDIO_FAILED": "Song generation failed",
	"CALLBACK_EXCEPTION":    "Callback exception",
	"SENSITIVE_WORD_ERROR":  "Sensitive word error",
}

// Classify maps a raw status string to a lifecycle state. The documented
// upper-case vocabulary is checked first; older deployments used lower-case
// words, so those are accepted as aliases.
func Classify(raw string) Lifecycle {
	switch strings.TrimSpace(raw) {
	case "PENDING":
		return LifecyclePending
	case "TEXT_SUCCESS":
		return LifecycleTextReady
	case "FIRST_SUCCESS":
		return LifecyclePartial
	case "SUCCESS":
		return LifecycleSuccess
	case "CREATE_TASK_FAILED":
		return LifecycleCreateFailed
	case "GENERATE_AUDIO_FAILED":
		return LifecycleGenerationFailed
	case "CALLBACK_EXCEPTION":
		return LifecycleCallbackException
	case "SENSITIVE_WORD_ERROR":
		return LifecycleContentRejected
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "complete", "finished", "success", "done":
		return LifecycleSuccess
	case "failed", "error":
		return LifecycleGenerationFailed
	case "pending", "queued", "processing", "running":
		return LifecyclePending
	}
	return LifecycleUnknown
}

// Describe returns operator-facing text for a raw status code.
func Describe(raw string) string {
	if desc, ok := statusDescriptions[strings.TrimSpace(raw)]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown status: %s", raw)
}

// SuccessLike reports whether the artifact may be ready for download.
func (l Lifecycle) SuccessLike() bool {
	return l == LifecycleSuccess || l == LifecyclePartial
}

// Failed reports whether the state is an explicit terminal failure.
func (l Lifecycle) Failed() bool {
	switch l {
	case LifecycleCreateFailed, LifecycleGenerationFailed, LifecycleCallbackException, LifecycleContentRejected:
		return true
	}
	return false
}

// String renders the lifecycle for logs.
func (l Lifecycle) String() string {
	switch l {
	case LifecyclePending:
		return "pending"
	case LifecycleTextReady:
		return "text_ready"
	case LifecyclePartial:
		return "partial_success"
	case LifecycleSuccess:
		return "success"
	case LifecycleCreateFailed:
		return "create_failed"
	case LifecycleGenerationFailed:
		return "generation_failed"
	case LifecycleCallbackException:
		return "callback_exception"
	case LifecycleContentRejected:
		return "content_rejected"
	default:
		return "unknown"
	}
}
