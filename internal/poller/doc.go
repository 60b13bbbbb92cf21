// Package poller drives repeated status checks for an in-flight generation
// task until it reaches a terminal state or the attempt budget runs out.
// A pass where no endpoint answers consumes a tick but is never escalated,
// and an unrecognized status is treated as "still working" rather than a
// failure. Exhaustion is reported distinctly from task failure because the
// task handle remains valid for a later resume.
package poller
