// Package download streams binary artifacts to disk in fixed-size chunks,
// retrying failed or empty downloads with exponential backoff. Progress is
// rendered only when stderr is a terminal and never influences control flow.
package download
